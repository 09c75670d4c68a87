package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func press(k *Keyboard, key sdl.Scancode) {
	k.HandleEvent(Event{Type: EventKeyDown, Key: key})
}

func release(k *Keyboard, key sdl.Scancode) {
	k.HandleEvent(Event{Type: EventKeyUp, Key: key})
}

func TestKeyboardEdges(t *testing.T) {
	k := NewKeyboard()

	press(k, sdl.SCANCODE_P)
	if !k.IsKeyDown(sdl.SCANCODE_P) || !k.IsKeyJustDown(sdl.SCANCODE_P) {
		t.Fatal("press should set level and edge")
	}
	k.EndFrame()

	if !k.IsKeyDown(sdl.SCANCODE_P) {
		t.Error("key should stay down across frames")
	}
	if k.IsKeyJustDown(sdl.SCANCODE_P) {
		t.Error("edge should clear after EndFrame")
	}

	// A second down event for a held key is not a new press.
	press(k, sdl.SCANCODE_P)
	if k.IsKeyJustDown(sdl.SCANCODE_P) {
		t.Error("held key should not produce another edge")
	}

	release(k, sdl.SCANCODE_P)
	if k.IsKeyDown(sdl.SCANCODE_P) || !k.IsKeyJustUp(sdl.SCANCODE_P) {
		t.Error("release should clear level and set up edge")
	}
	k.EndFrame()
	if k.IsKeyJustUp(sdl.SCANCODE_P) {
		t.Error("up edge should clear after EndFrame")
	}
}

func TestKeyboardPressAndReleaseInOneFrame(t *testing.T) {
	k := NewKeyboard()
	press(k, sdl.SCANCODE_W)
	release(k, sdl.SCANCODE_W)
	if !k.IsKeyJustDown(sdl.SCANCODE_W) || !k.IsKeyJustUp(sdl.SCANCODE_W) {
		t.Error("both edges should be visible to the next tick")
	}
	if k.IsKeyDown(sdl.SCANCODE_W) {
		t.Error("key should not be held")
	}
}

func TestKeyboardIgnoresOtherEvents(t *testing.T) {
	k := NewKeyboard()
	k.HandleEvent(Event{Type: EventMouseDown, Button: sdl.BUTTON_LEFT})
	release(k, sdl.SCANCODE_A)
	if k.IsKeyJustUp(sdl.SCANCODE_A) {
		t.Error("releasing an unheld key is not an edge")
	}
}

func TestKeyboardReset(t *testing.T) {
	k := NewKeyboard()
	press(k, sdl.SCANCODE_D)
	k.Reset()
	if k.IsKeyDown(sdl.SCANCODE_D) || k.IsKeyJustDown(sdl.SCANCODE_D) {
		t.Error("reset should release everything")
	}
}

func TestEventIsClick(t *testing.T) {
	if !(Event{Type: EventMouseDown, Button: sdl.BUTTON_LEFT}).IsClick() {
		t.Error("left press is a click")
	}
	if (Event{Type: EventMouseUp, Button: sdl.BUTTON_LEFT}).IsClick() {
		t.Error("release is not a click")
	}
}
