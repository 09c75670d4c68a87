// Package animation plays keyframe animations on scene nodes.
//
// Keyframe values are deltas over the pose a target had when it was bound:
// translations add, rotations compose and scales multiply.
package animation

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/logger"
	"github.com/Faultbox/racer/pkg/formats"
)

// Target is anything with a local transform an animation can drive.
type Target interface {
	Translation() mgl32.Vec3
	SetTranslation(mgl32.Vec3)
	Rotation() mgl32.Quat
	SetRotation(mgl32.Quat)
	Scale() mgl32.Vec3
	SetScale(mgl32.Vec3)
}

// Resolver maps a target id to a Target. A nil result leaves that target
// unbound.
type Resolver func(id string) Target

type binding struct {
	target Target
	baseT  mgl32.Vec3
	baseR  mgl32.Quat
	baseS  mgl32.Vec3
}

type track struct {
	id        string
	targets   []string
	mode      formats.Interpolation
	translate []vecKey
	rotate    []quatKey
	scale     []vecKey
	bindings  []binding
}

// Animation is one keyframe animation with its playback cursor.
type Animation struct {
	ID        string
	Duration  float32
	Repeat    bool
	Autostart bool

	tracks    []*track
	time      float32
	timeScale float32
	playing   bool
	paused    bool
	loops     int
}

// New builds an animation from its declaration and binds its tracks.
func New(def *formats.Animation, resolve Resolver) *Animation {
	a := &Animation{
		ID:        def.ID,
		Duration:  def.Duration,
		Repeat:    def.Repeat,
		Autostart: def.Autostart,
		timeScale: 1,
	}
	byID := make(map[string]*track, len(def.Tracks))
	for _, tr := range def.Tracks {
		t := &track{id: tr.ID, targets: tr.Targets, mode: tr.Interpolation}
		a.tracks = append(a.tracks, t)
		byID[tr.ID] = t
	}
	for _, kf := range def.Keyframes {
		for _, kt := range kf.Transforms {
			t := byID[kt.Track]
			if t == nil {
				continue
			}
			if kt.Translate != nil {
				t.translate = append(t.translate, vecKey{kf.Time, *kt.Translate})
			}
			if kt.Rotate != nil {
				r := *kt.Rotate
				q := mgl32.AnglesToQuat(mgl32.DegToRad(r[0]), mgl32.DegToRad(r[1]), mgl32.DegToRad(r[2]), mgl32.XYZ)
				t.rotate = append(t.rotate, quatKey{kf.Time, q})
			}
			if kt.Scale != nil {
				t.scale = append(t.scale, vecKey{kf.Time, *kt.Scale})
			}
		}
	}
	for _, t := range a.tracks {
		// Every channel starts from the bound pose.
		if len(t.translate) == 0 || t.translate[0].time > 0 {
			t.translate = append([]vecKey{{0, mgl32.Vec3{}}}, t.translate...)
		}
		if len(t.rotate) == 0 || t.rotate[0].time > 0 {
			t.rotate = append([]quatKey{{0, mgl32.QuatIdent()}}, t.rotate...)
		}
		if len(t.scale) == 0 || t.scale[0].time > 0 {
			t.scale = append([]vecKey{{0, mgl32.Vec3{1, 1, 1}}}, t.scale...)
		}
	}
	a.Bind(resolve)
	return a
}

// Bind resolves every track's targets and captures their current pose as
// the base the keyframe deltas apply to.
func (a *Animation) Bind(resolve Resolver) {
	for _, t := range a.tracks {
		t.bindings = t.bindings[:0]
		if resolve == nil {
			continue
		}
		for _, id := range t.targets {
			target := resolve(id)
			if target == nil {
				logger.Debug("animation target not found",
					zap.String("animation", a.ID),
					zap.String("track", t.id),
					zap.String("target", id))
				continue
			}
			t.bindings = append(t.bindings, binding{
				target: target,
				baseT:  target.Translation(),
				baseR:  target.Rotation(),
				baseS:  target.Scale(),
			})
		}
	}
}

// Time returns the playback cursor in seconds.
func (a *Animation) Time() float32 { return a.time }

// Loops returns how many times a repeating animation has wrapped.
func (a *Animation) Loops() int { return a.loops }

// IsPlaying reports whether the animation advances on Update.
func (a *Animation) IsPlaying() bool { return a.playing && !a.paused }

// Reversed reports whether the animation runs backwards.
func (a *Animation) Reversed() bool { return a.timeScale < 0 }

// Update advances the cursor by dt seconds and poses the targets. It does
// nothing unless the animation is playing.
func (a *Animation) Update(dt float32) {
	if !a.IsPlaying() || a.Duration <= 0 {
		return
	}
	a.time += dt * a.timeScale

	if a.Repeat {
		if a.time >= a.Duration || a.time < 0 {
			wraps := math32.Floor(a.time / a.Duration)
			a.time -= wraps * a.Duration
			a.loops += int(math32.Abs(wraps))
		}
	} else if a.time >= a.Duration {
		a.time = a.Duration
		a.playing = false
	} else if a.time <= 0 && a.timeScale < 0 {
		a.time = 0
		a.playing = false
	}
	a.apply()
}

func (a *Animation) play() {
	if !a.Repeat {
		if a.timeScale > 0 && a.time >= a.Duration {
			a.time = 0
		} else if a.timeScale < 0 && a.time <= 0 {
			a.time = a.Duration
		}
	}
	a.playing = true
	a.paused = false
}

func (a *Animation) playFromStart() {
	a.time = 0
	if a.timeScale < 0 {
		a.time = a.Duration
	}
	a.loops = 0
	a.playing = true
	a.paused = false
	a.apply()
}

func (a *Animation) stop() {
	a.playing = false
	a.paused = false
	a.time = 0
	a.loops = 0
	a.apply()
}

// apply poses every bound target at the current time.
func (a *Animation) apply() {
	for _, t := range a.tracks {
		if len(t.bindings) == 0 {
			continue
		}
		dT := sampleVec(t.translate, a.time, t.mode)
		dR := sampleQuat(t.rotate, a.time, t.mode)
		dS := sampleVec(t.scale, a.time, t.mode)
		for _, b := range t.bindings {
			b.target.SetTranslation(b.baseT.Add(dT))
			b.target.SetRotation(b.baseR.Mul(dR))
			b.target.SetScale(mgl32.Vec3{b.baseS[0] * dS[0], b.baseS[1] * dS[1], b.baseS[2] * dS[2]})
		}
	}
}
