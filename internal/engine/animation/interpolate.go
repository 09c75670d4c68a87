package animation

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/racer/pkg/formats"
)

type vecKey struct {
	time  float32
	value mgl32.Vec3
}

type quatKey struct {
	time  float32
	value mgl32.Quat
}

// segment finds the keys surrounding t in a sorted key list. prev == next
// when t is at or past the last key.
func segment(times func(int) float32, n int, t float32) (prev, next int, frac float32) {
	for i := 0; i < n; i++ {
		if times(i) > t {
			next = i
			break
		}
		prev = i
		next = i
	}
	if prev == next {
		return prev, next, 0
	}
	t0, t1 := times(prev), times(next)
	if t1 > t0 {
		frac = (t - t0) / (t1 - t0)
	}
	return prev, next, frac
}

func sampleVec(keys []vecKey, t float32, mode formats.Interpolation) mgl32.Vec3 {
	switch len(keys) {
	case 0:
		return mgl32.Vec3{}
	case 1:
		return keys[0].value
	}
	prev, next, frac := segment(func(i int) float32 { return keys[i].time }, len(keys), t)
	if prev == next {
		return keys[prev].value
	}
	a, b := keys[prev].value, keys[next].value
	switch mode {
	case formats.InterpolationDiscrete:
		return a
	case formats.InterpolationSmooth:
		p0 := keys[max(prev-1, 0)].value
		p3 := keys[min(next+1, len(keys)-1)].value
		return catmullRom(p0, a, b, p3, frac)
	default:
		return a.Add(b.Sub(a).Mul(frac))
	}
}

func sampleQuat(keys []quatKey, t float32, mode formats.Interpolation) mgl32.Quat {
	switch len(keys) {
	case 0:
		return mgl32.QuatIdent()
	case 1:
		return keys[0].value
	}
	prev, next, frac := segment(func(i int) float32 { return keys[i].time }, len(keys), t)
	if prev == next {
		return keys[prev].value
	}
	a, b := keys[prev].value, keys[next].value
	switch mode {
	case formats.InterpolationDiscrete:
		return a
	case formats.InterpolationSmooth:
		frac = frac * frac * (3 - 2*frac)
	}
	// Take the short way round.
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, frac)
}

// catmullRom evaluates a uniform Catmull-Rom segment between p1 and p2.
func catmullRom(p0, p1, p2, p3 mgl32.Vec3, t float32) mgl32.Vec3 {
	t2 := t * t
	t3 := t2 * t
	return p0.Mul(-0.5*t3 + t2 - 0.5*t).
		Add(p1.Mul(1.5*t3 - 2.5*t2 + 1)).
		Add(p2.Mul(-1.5*t3 + 2*t2 + 0.5*t)).
		Add(p3.Mul(0.5*t3 - 0.5*t2))
}
