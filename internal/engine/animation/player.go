package animation

// Player owns the animations of a scene and advances them together.
// Every control method ignores unknown ids.
type Player struct {
	anims map[string]*Animation
	order []*Animation
	speed float32
}

// NewPlayer creates an empty player running at normal speed.
func NewPlayer() *Player {
	return &Player{
		anims: make(map[string]*Animation),
		speed: 1,
	}
}

// Add registers an animation, replacing any with the same id.
func (p *Player) Add(a *Animation) {
	if old, ok := p.anims[a.ID]; ok {
		for i, o := range p.order {
			if o == old {
				p.order = append(p.order[:i], p.order[i+1:]...)
				break
			}
		}
	}
	p.anims[a.ID] = a
	p.order = append(p.order, a)
}

// Get returns an animation by id, or nil.
func (p *Player) Get(id string) *Animation { return p.anims[id] }

// Len returns the number of registered animations.
func (p *Player) Len() int { return len(p.order) }

// SetSpeed scales the time step of every animation.
func (p *Player) SetSpeed(s float32) { p.speed = s }

// Speed returns the time step multiplier.
func (p *Player) Speed() float32 { return p.speed }

// Play starts or resumes an animation in its current direction.
func (p *Player) Play(id string) {
	if a := p.anims[id]; a != nil {
		a.play()
	}
}

// PlayFromStart rewinds an animation and plays it.
func (p *Player) PlayFromStart(id string) {
	if a := p.anims[id]; a != nil {
		a.playFromStart()
	}
}

// PlayForwards plays an animation forwards from its cursor.
func (p *Player) PlayForwards(id string) {
	if a := p.anims[id]; a != nil {
		a.timeScale = 1
		a.play()
	}
}

// PlayBackwards plays an animation backwards from its cursor.
func (p *Player) PlayBackwards(id string) {
	if a := p.anims[id]; a != nil {
		a.timeScale = -1
		a.play()
	}
}

// Pause freezes an animation at its cursor.
func (p *Player) Pause(id string) {
	if a := p.anims[id]; a != nil {
		a.paused = true
	}
}

// Stop halts an animation and rewinds its targets to the start pose.
func (p *Player) Stop(id string) {
	if a := p.anims[id]; a != nil {
		a.stop()
	}
}

// IsPlaying reports whether an animation is advancing.
func (p *Player) IsPlaying(id string) bool {
	a := p.anims[id]
	return a != nil && a.IsPlaying()
}

// Time returns an animation's position in seconds, 0 for unknown ids.
func (p *Player) Time(id string) float32 {
	if a := p.anims[id]; a != nil {
		return a.Time()
	}
	return 0
}

// Loops returns how many times an animation has wrapped, 0 for unknown ids.
func (p *Player) Loops(id string) int {
	if a := p.anims[id]; a != nil {
		return a.Loops()
	}
	return 0
}

// Update advances every registered animation by dt seconds scaled by the
// player speed. Animations that are not playing ignore the call.
func (p *Player) Update(dt float64) {
	step := float32(dt) * p.speed
	for _, a := range p.order {
		a.Update(step)
	}
}
