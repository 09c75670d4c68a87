package clock

import (
	"testing"
	"time"
)

// fakeTime is a manually advanced time source.
type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func newFake() (*Clock, *fakeTime) {
	ft := &fakeTime{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	return NewWithSource(ft.now), ft
}

func TestElapsedWhileRunning(t *testing.T) {
	c, ft := newFake()
	c.Start()
	ft.advance(1500 * time.Millisecond)

	if got := c.ElapsedTime(); got != 1500*time.Millisecond {
		t.Errorf("ElapsedTime = %v, want 1.5s", got)
	}
}

func TestZeroValueReportsZero(t *testing.T) {
	var c Clock
	if c.ElapsedTime() != 0 {
		t.Errorf("zero clock should report 0, got %v", c.ElapsedTime())
	}
	if c.Running() {
		t.Error("zero clock should not be running")
	}
}

func TestStopFreezesElapsed(t *testing.T) {
	c, ft := newFake()
	c.Start()
	ft.advance(2 * time.Second)
	c.Stop()
	elapsed := c.ElapsedTime()

	ft.advance(10 * time.Second)
	c.Stop() // second stop is a no-op

	if got := c.ElapsedTime(); got != elapsed {
		t.Errorf("stopped clock moved: %v -> %v", elapsed, got)
	}
	if elapsed != 2*time.Second {
		t.Errorf("elapsed = %v, want 2s", elapsed)
	}
}

func TestResumeExcludesPause(t *testing.T) {
	c, ft := newFake()
	c.Start()
	ft.advance(time.Second)
	c.Stop()
	ft.advance(5 * time.Second)
	c.Resume()
	ft.advance(time.Second)

	if got := c.ElapsedTime(); got != 2*time.Second {
		t.Errorf("ElapsedTime = %v, want 2s", got)
	}

	// Resume while running must not add anything.
	c.Resume()
	ft.advance(time.Second)
	if got := c.ElapsedTime(); got != 3*time.Second {
		t.Errorf("ElapsedTime = %v, want 3s", got)
	}
}

func TestMultiplePauses(t *testing.T) {
	c, ft := newFake()
	c.Start()
	for i := 0; i < 3; i++ {
		ft.advance(time.Second)
		c.Stop()
		ft.advance(time.Minute)
		c.Resume()
	}
	if got := c.ElapsedTime(); got != 3*time.Second {
		t.Errorf("ElapsedTime = %v, want 3s", got)
	}
}

func TestStartResets(t *testing.T) {
	c, ft := newFake()
	c.Start()
	ft.advance(time.Second)
	c.Stop()
	ft.advance(time.Second)
	c.Resume()
	ft.advance(time.Second)

	c.Start()
	if got := c.ElapsedTime(); got != 0 {
		t.Errorf("ElapsedTime after restart = %v, want 0", got)
	}
	ft.advance(300 * time.Millisecond)
	if got := c.ElapsedTime(); got != 300*time.Millisecond {
		t.Errorf("ElapsedTime = %v, want 300ms", got)
	}
}

func TestResumeNeverStartedStarts(t *testing.T) {
	c, ft := newFake()
	c.Resume()
	ft.advance(time.Second)
	if !c.Running() || c.ElapsedTime() != time.Second {
		t.Errorf("resume on fresh clock should start it, running=%v elapsed=%v", c.Running(), c.ElapsedTime())
	}
}
