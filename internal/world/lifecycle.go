package world

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tomz197/starfall/internal/event"
	"github.com/tomz197/starfall/internal/object"
)

var (
	// ErrModeConflict is returned when toggling manual aim while co-op is on,
	// or co-op while manual aim is on.
	ErrModeConflict = errors.New("manual aim and co-op cannot be combined")

	// ErrNotRunning is returned by lifecycle commands that need a run.
	ErrNotRunning = errors.New("no run in progress")
)

// Start begins a new run with player one flying class. Any previous run is
// discarded. Co-op, if enabled, adds player two immediately.
func (w *World) Start(class object.Class) error {
	p1, err := object.NewPlayer(class, w.bounds.W/2, w.bounds.H/2)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}

	w.reset()
	w.class = class
	w.players = []*object.Player{p1}
	if w.opts.Coop {
		if err := w.addPartner(); err != nil {
			return fmt.Errorf("start run: %w", err)
		}
	}

	w.runID = uuid.New()
	w.state = StateRunning
	w.progress.level = LevelAt(0)
	w.spawner.next.StartWith(0, w.progress.spawnInterval())
	w.followCamera()

	w.log.Info("run started", "run", w.runID, "class", class, "coop", w.opts.Coop, "manual", w.opts.ManualAim)
	return nil
}

// Pause freezes the run. Nothing decays while paused.
func (w *World) Pause() error {
	if w.state != StateRunning {
		return fmt.Errorf("pause: %w", ErrNotRunning)
	}
	w.state = StatePaused
	return nil
}

// Resume continues a paused run.
func (w *World) Resume() error {
	if w.state != StatePaused {
		return fmt.Errorf("resume: %w", ErrNotRunning)
	}
	w.state = StateRunning
	return nil
}

// Restart starts a fresh run with the same class.
func (w *World) Restart() error {
	if w.state == StateIdle {
		return fmt.Errorf("restart: %w", ErrNotRunning)
	}
	w.log.Info("run restarted", "run", w.runID, "score", w.progress.score)
	return w.Start(w.class)
}

// Stop abandons the run and returns to the idle state.
func (w *World) Stop() {
	if w.state != StateIdle {
		w.log.Info("run stopped", "run", w.runID, "score", w.progress.score, "elapsed", w.now)
	}
	w.reset()
	w.state = StateIdle
	w.runID = uuid.Nil
}

// SetIntent stores a player's input for the next tick. A special request
// stays latched until a tick consumes it.
func (w *World) SetIntent(player int, in Intent) {
	if player < 0 || player >= len(w.intents) {
		return
	}
	in.Special = in.Special || w.intents[player].Special
	w.intents[player] = in
}

// ToggleManualAim flips manual aiming. Returns the new value.
func (w *World) ToggleManualAim() (bool, error) {
	if w.opts.Coop {
		return w.opts.ManualAim, ErrModeConflict
	}
	w.opts.ManualAim = !w.opts.ManualAim
	return w.opts.ManualAim, nil
}

// ToggleCoop flips co-op. During a run player two joins or leaves at once.
// Returns the new value.
func (w *World) ToggleCoop() (bool, error) {
	if w.opts.ManualAim {
		return w.opts.Coop, ErrModeConflict
	}

	on := !w.opts.Coop
	if w.state == StateRunning || w.state == StatePaused {
		if on {
			if err := w.addPartner(); err != nil {
				return w.opts.Coop, err
			}
		} else {
			w.dropPartner()
		}
	}
	w.opts.Coop = on
	return on, nil
}

// ToggleAutoFire flips auto-fire. Returns the new value.
func (w *World) ToggleAutoFire() bool {
	w.opts.AutoFire = !w.opts.AutoFire
	return w.opts.AutoFire
}

// gameOver ends the run when player one has no health left. Co-op is
// dropped.
func (w *World) gameOver() {
	w.state = StateOver
	if w.opts.Coop {
		w.dropPartner()
		w.opts.Coop = false
	}
	p := w.players[0]
	w.events.Emit(event.Event{Kind: event.GameOver, X: p.X, Y: p.Y, Amount: w.progress.score})
	w.log.Info("game over", "run", w.runID, "score", w.progress.score, "level", w.progress.level, "elapsed", w.now)
}
