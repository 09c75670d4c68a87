// Package ui holds the heads-up display model states write into. Drawing
// it is up to the renderer.
package ui

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/logger"
	"github.com/Faultbox/racer/pkg/formats"
)

// Element is one text element of the HUD.
type Element struct {
	ID       string
	Position mgl32.Vec2 // normalized device coordinates
	Scale    float32
	Text     string
	Visible  bool
}

// HUD is the set of screen elements declared by a scene.
type HUD struct {
	elements []*Element
	byID     map[string]*Element
}

// NewHUD binds the elements of a scene's hud section. Every element starts
// visible with its declared text.
func NewHUD(def formats.HUD) *HUD {
	h := &HUD{byID: make(map[string]*Element, len(def.Elements))}
	for _, d := range def.Elements {
		e := &Element{ID: d.ID, Position: d.Position, Scale: d.Scale, Text: d.Text, Visible: true}
		h.elements = append(h.elements, e)
		h.byID[d.ID] = e
	}
	return h
}

func (h *HUD) element(id string) *Element {
	if h == nil {
		return nil
	}
	e := h.byID[id]
	if e == nil {
		logger.Debug("hud element not declared", zap.String("id", id))
	}
	return e
}

// Set changes the text of an element.
func (h *HUD) Set(id, text string) {
	if e := h.element(id); e != nil {
		e.Text = text
	}
}

// Show makes an element visible.
func (h *HUD) Show(id string) {
	if e := h.element(id); e != nil {
		e.Visible = true
	}
}

// Hide hides an element.
func (h *HUD) Hide(id string) {
	if e := h.element(id); e != nil {
		e.Visible = false
	}
}

// Text returns the text of an element, empty if it is not declared.
func (h *HUD) Text(id string) string {
	if h == nil {
		return ""
	}
	if e := h.byID[id]; e != nil {
		return e.Text
	}
	return ""
}

// Visible reports whether an element is declared and shown.
func (h *HUD) Visible(id string) bool {
	if h == nil {
		return false
	}
	e := h.byID[id]
	return e != nil && e.Visible
}

// Elements returns the elements in declaration order.
func (h *HUD) Elements() []*Element {
	if h == nil {
		return nil
	}
	return h.elements
}

// Summary joins the visible, non-empty texts into one line.
func (h *HUD) Summary() string {
	var parts []string
	for _, e := range h.Elements() {
		if e.Visible && e.Text != "" {
			parts = append(parts, e.Text)
		}
	}
	return strings.Join(parts, " | ")
}
