package states

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/engine/input"
	"github.com/Faultbox/racer/internal/logger"
)

// Menu button node ids.
const (
	ButtonStart   = "start"
	ButtonEasy    = "easy"
	ButtonMedium  = "medium"
	ButtonHard    = "hard"
	ButtonRestart = "restart"
)

// showButtons makes the listed menu buttons visible and hides the rest.
func showButtons(m *Manager, ids ...string) {
	all := []string{ButtonStart, ButtonEasy, ButtonMedium, ButtonHard, ButtonRestart}
	for _, id := range all {
		n := m.World().Registry.Node(id)
		if n == nil {
			continue
		}
		n.Visible = false
		for _, want := range ids {
			if want == id {
				n.Visible = true
			}
		}
	}
}

// InitialMenu lets the player choose a difficulty and start.
type InitialMenu struct {
	m    *Manager
	pick *picker
}

// NewInitialMenu creates the opening menu.
func NewInitialMenu(m *Manager) *InitialMenu {
	return &InitialMenu{m: m}
}

// Name implements State.
func (s *InitialMenu) Name() string { return "initial_menu" }

// Enter loads the menu scene and shows the setup buttons.
func (s *InitialMenu) Enter() error {
	if err := s.m.ensureWorld(s.m.Settings.MenuScene); err != nil {
		return err
	}
	buttons := []string{ButtonStart, ButtonEasy, ButtonMedium, ButtonHard}
	showButtons(s.m, buttons...)
	s.pick = newPicker(s.m, buttons...)

	hud := s.m.HUD
	hud.Hide("winner")
	hud.Hide("time")
	hud.Show("title")
	hud.Show("difficulty")
	hud.Set("difficulty", "Difficulty: "+string(s.m.Difficulty))
	hud.Set("status", "Pick a difficulty, then start")
	return nil
}

// Exit implements State.
func (s *InitialMenu) Exit() error { return nil }

// HandleInput implements State.
func (s *InitialMenu) HandleInput(ev input.Event) { s.pick.handle(ev) }

// Update applies the last selection.
func (s *InitialMenu) Update(dt float64) error {
	s.m.World().Update(dt)

	sel, ok := s.pick.take()
	if !ok {
		return nil
	}
	switch sel {
	case ButtonEasy, ButtonMedium, ButtonHard:
		s.m.Difficulty = Difficulty(sel)
		s.m.HUD.Set("difficulty", "Difficulty: "+sel)
	case ButtonStart:
		if err := s.m.SwitchWorld(s.m.Settings.RaceScene); err != nil {
			logger.Error("race scene failed to load", zap.Error(err))
			s.m.HUD.Set("status", "Race scene failed to load")
			return nil
		}
		s.m.Change(NewPlayerPark(s.m))
	}
	return nil
}

// FinalMenu shows the outcome of a race and offers a restart.
type FinalMenu struct {
	m    *Manager
	pick *picker
}

// NewFinalMenu creates the results screen.
func NewFinalMenu(m *Manager) *FinalMenu {
	return &FinalMenu{m: m}
}

// Name implements State.
func (s *FinalMenu) Name() string { return "final_menu" }

// Enter loads the menu scene and shows the results.
func (s *FinalMenu) Enter() error {
	if err := s.m.ensureWorld(s.m.Settings.MenuScene); err != nil {
		return err
	}
	showButtons(s.m, ButtonRestart)
	s.pick = newPicker(s.m, ButtonRestart)

	r := s.m.Results
	hud := s.m.HUD
	hud.Hide("difficulty")
	hud.Show("winner")
	hud.Show("time")
	if r.PlayerWon {
		hud.Set("winner", "You win!")
	} else {
		hud.Set("winner", "The opponent wins")
	}
	hud.Set("time", fmt.Sprintf("Race %s, best lap %s", formatDuration(r.RaceTime), formatDuration(r.BestLap)))
	hud.Set("status", "Click restart to race again")
	return nil
}

// Exit implements State.
func (s *FinalMenu) Exit() error { return nil }

// HandleInput implements State.
func (s *FinalMenu) HandleInput(ev input.Event) { s.pick.handle(ev) }

// Update restarts the game when asked to.
func (s *FinalMenu) Update(dt float64) error {
	s.m.World().Update(dt)

	if sel, ok := s.pick.take(); ok && sel == ButtonRestart {
		s.m.Reset()
		s.m.Change(NewInitialMenu(s.m))
	}
	return nil
}

// formatDuration renders a duration as seconds with two decimals.
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
