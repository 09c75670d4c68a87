package entity

// Laps counts checkpoints passed in strict cyclic order.
type Laps struct {
	total       int
	checkpoints int
	counter     int
	lap         int
}

// NewLaps creates a counter for a race of total laps over n checkpoints.
func NewLaps(total, n int) *Laps {
	return &Laps{total: total, checkpoints: n}
}

// Current returns the index of the checkpoint that must be passed next.
func (l *Laps) Current() int {
	if l.checkpoints == 0 {
		return 0
	}
	return l.counter % l.checkpoints
}

// Lap returns the lap being driven; zero before the start line.
func (l *Laps) Lap() int { return l.lap }

// Total returns the number of laps in the race.
func (l *Laps) Total() int { return l.total }

// Counter returns the number of checkpoints passed.
func (l *Laps) Counter() int { return l.counter }

// Finished reports whether every lap has been completed.
func (l *Laps) Finished() bool { return l.lap > l.total }

// Completed returns the number of finished laps.
func (l *Laps) Completed() int { return max(l.lap-1, 0) }

// Pass records a hit on checkpoint index. Only the current checkpoint
// counts. newLap is set when checkpoint zero starts a lap.
func (l *Laps) Pass(index int) (ok, newLap bool) {
	if l.checkpoints == 0 || index != l.Current() {
		return false, false
	}
	if index == 0 {
		l.lap++
		newLap = true
	}
	l.counter++
	return true, newLap
}
