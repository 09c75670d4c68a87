package input

import "github.com/veandco/go-sdl2/sdl"

// Keyboard tracks held keys plus the keys that changed since the last
// EndFrame, so a tick can tell a fresh press from a held key.
type Keyboard struct {
	down     map[sdl.Scancode]bool
	justDown map[sdl.Scancode]bool
	justUp   map[sdl.Scancode]bool
}

// NewKeyboard creates a keyboard manager with no keys held.
func NewKeyboard() *Keyboard {
	return &Keyboard{
		down:     make(map[sdl.Scancode]bool),
		justDown: make(map[sdl.Scancode]bool),
		justUp:   make(map[sdl.Scancode]bool),
	}
}

// HandleEvent records key presses and releases. Other events are ignored.
func (k *Keyboard) HandleEvent(e Event) {
	switch e.Type {
	case EventKeyDown:
		if !k.down[e.Key] {
			k.justDown[e.Key] = true
		}
		k.down[e.Key] = true
	case EventKeyUp:
		if k.down[e.Key] {
			k.justUp[e.Key] = true
		}
		delete(k.down, e.Key)
	}
}

// IsKeyDown reports whether key is held.
func (k *Keyboard) IsKeyDown(key sdl.Scancode) bool {
	return k.down[key]
}

// IsKeyJustDown reports whether key was pressed since the last EndFrame.
func (k *Keyboard) IsKeyJustDown(key sdl.Scancode) bool {
	return k.justDown[key]
}

// IsKeyJustUp reports whether key was released since the last EndFrame.
func (k *Keyboard) IsKeyJustUp(key sdl.Scancode) bool {
	return k.justUp[key]
}

// EndFrame clears the edge flags. Call it once after every tick.
func (k *Keyboard) EndFrame() {
	clear(k.justDown)
	clear(k.justUp)
}

// Reset releases every key, e.g. when the window loses focus.
func (k *Keyboard) Reset() {
	clear(k.down)
	k.EndFrame()
}
