package client

import (
	"errors"
	"fmt"
	"slices"
)

// Screen is a front-end state. Only ScreenGame and ScreenPaused have a run
// behind them; the others are menus.
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenSelect
	ScreenGame
	ScreenPaused
	ScreenGameOver
	ScreenOptions
	ScreenExitConfirm
)

func (s Screen) String() string {
	switch s {
	case ScreenMenu:
		return "menu"
	case ScreenSelect:
		return "spacecraft_select"
	case ScreenGame:
		return "game"
	case ScreenPaused:
		return "paused"
	case ScreenGameOver:
		return "game_over"
	case ScreenOptions:
		return "options"
	case ScreenExitConfirm:
		return "exit_confirm"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// ErrBadTransition is returned when a screen change is not in the table.
var ErrBadTransition = errors.New("screen transition not allowed")

// transitions lists the screens reachable from each screen.
var transitions = map[Screen][]Screen{
	ScreenMenu:        {ScreenSelect, ScreenOptions, ScreenExitConfirm},
	ScreenSelect:      {ScreenGame, ScreenMenu},
	ScreenGame:        {ScreenPaused, ScreenGameOver, ScreenExitConfirm},
	ScreenPaused:      {ScreenGame, ScreenOptions, ScreenMenu, ScreenExitConfirm},
	ScreenGameOver:    {ScreenGame, ScreenMenu, ScreenExitConfirm},
	ScreenOptions:     {ScreenMenu, ScreenPaused},
	ScreenExitConfirm: {ScreenMenu, ScreenGame, ScreenPaused, ScreenGameOver},
}

// ScreenMachine tracks the current screen and the one before it, so modal
// screens (options, exit confirmation) can return where they came from.
type ScreenMachine struct {
	current  Screen
	previous Screen
	changed  bool
}

// NewScreenMachine starts on the menu.
func NewScreenMachine() *ScreenMachine {
	return &ScreenMachine{current: ScreenMenu, previous: ScreenMenu, changed: true}
}

// Current returns the active screen.
func (m *ScreenMachine) Current() Screen { return m.current }

// Previous returns the screen before the last transition.
func (m *ScreenMachine) Previous() Screen { return m.previous }

// CanGo reports whether the table allows current -> to.
func (m *ScreenMachine) CanGo(to Screen) bool {
	return slices.Contains(transitions[m.current], to)
}

// Go moves to another screen.
func (m *ScreenMachine) Go(to Screen) error {
	if to == m.current {
		return nil
	}
	if !m.CanGo(to) {
		return fmt.Errorf("%s -> %s: %w", m.current, to, ErrBadTransition)
	}
	m.previous, m.current = m.current, to
	m.changed = true
	return nil
}

// Back returns to the previous screen.
func (m *ScreenMachine) Back() (Screen, error) {
	to := m.previous
	if err := m.Go(to); err != nil {
		return m.current, err
	}
	return to, nil
}

// TakeChanged reports whether the screen changed since the last call.
func (m *ScreenMachine) TakeChanged() bool {
	c := m.changed
	m.changed = false
	return c
}
