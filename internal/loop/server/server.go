package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfall/internal/clock"
	"github.com/tomz197/starfall/internal/event"
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/world"
)

// GameSession is the interface clients use to drive a session. Decouples
// the Client from the concrete Session, so tests can substitute it.
type GameSession interface {
	SendIntent(player int, in world.Intent)
	Start(class object.Class) error
	Command(cmd Command) (bool, error)
	Snapshot() *world.Snapshot
	Subscribe(buffer int) (<-chan event.Event, func())
}

// Compile-time check that Session implements GameSession.
var _ GameSession = (*Session)(nil)

// ErrUnknownCommand is returned by Command for values outside the Command set.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a lifecycle or option request.
type Command int

const (
	CmdPause Command = iota
	CmdResume
	CmdRestart
	CmdStop // Return to menu
	CmdToggleManualAim
	CmdToggleCoop
	CmdToggleAutoFire
)

func (c Command) String() string {
	switch c {
	case CmdPause:
		return "pause"
	case CmdResume:
		return "resume"
	case CmdRestart:
		return "restart"
	case CmdStop:
		return "stop"
	case CmdToggleManualAim:
		return "toggle_manual_aim"
	case CmdToggleCoop:
		return "toggle_coop"
	case CmdToggleAutoFire:
		return "toggle_auto_fire"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// playerIntent is an intent from a specific player slot.
type playerIntent struct {
	player int
	in     world.Intent
}

// Options configures a Session.
type Options struct {
	Clock    clock.Clock   // Defaults to the wall clock
	TickTime time.Duration // Defaults to config.ServerTickTime
	Logger   *log.Logger   // Defaults to a discarding logger
}

// Session owns one World and advances it on a fixed tick. Intents arrive on
// a buffered channel, lifecycle commands are applied directly under the
// lock, and readers get an immutable snapshot through an atomic pointer.
type Session struct {
	world    *world.World
	clock    clock.Clock
	log      *log.Logger
	tickTime time.Duration

	snapshot atomic.Pointer[world.Snapshot]
	intentCh chan playerIntent
	bus      *event.Bus

	mu   sync.Mutex
	last time.Time // Clock sample of the previous step
}

// New creates a session around a fresh world.
func New(cfg world.Config, opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if cfg.Logger == nil {
		cfg.Logger = opts.Logger
	}
	w, err := world.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.TickTime <= 0 {
		opts.TickTime = config.ServerTickTime
	}

	s := &Session{
		world:    w,
		clock:    opts.Clock,
		log:      opts.Logger,
		tickTime: opts.TickTime,
		intentCh: make(chan playerIntent, config.IntentQueueSize),
		bus:      event.NewBus(),
		last:     opts.Clock.Now(),
	}
	s.snapshot.Store(w.Snapshot())
	return s, nil
}

// Run ticks the session until the context is cancelled, then closes every
// event subscription.
func (s *Session) Run(ctx context.Context) {
	defer s.bus.Close()

	s.mu.Lock()
	s.last = s.clock.Now()
	s.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		s.Step()

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < s.tickTime {
			time.Sleep(s.tickTime - elapsed)
		}
	}
}

// Step performs one runner iteration: apply queued intents, tick the world
// with the delta since the previous step, publish the snapshot and fan out
// the tick's events. Returns whether the world ticked.
func (s *Session) Step() bool {
	s.mu.Lock()
	s.collectIntentsLocked()

	now := s.clock.Now()
	dt, ok := clock.Delta(s.last, now, world.MaxDelta)
	s.last = now

	ticked := ok && s.world.Tick(dt)
	events := s.world.Events()
	s.publishLocked()
	s.mu.Unlock()

	if len(events) > 0 {
		s.bus.Publish(events...)
	}
	return ticked
}

// collectIntentsLocked drains pending intents into the world. Must be called
// with the lock held.
func (s *Session) collectIntentsLocked() {
	for {
		select {
		case pi := <-s.intentCh:
			s.world.SetIntent(pi.player, pi.in)
		default:
			return
		}
	}
}

// publishLocked stores a fresh snapshot. Must be called with the lock held.
func (s *Session) publishLocked() {
	s.snapshot.Store(s.world.Snapshot())
}

// SendIntent queues a player's input for the next tick.
func (s *Session) SendIntent(player int, in world.Intent) {
	select {
	case s.intentCh <- playerIntent{player: player, in: in}:
	default:
		// Queue full, drop input
	}
}

// Start begins a new run.
func (s *Session) Start(class object.Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.world.Start(class); err != nil {
		return err
	}
	s.last = s.clock.Now()
	s.publishLocked()
	return nil
}

// Command applies a lifecycle or option request. For toggles the returned
// bool is the option's new value.
func (s *Session) Command(cmd Command) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		on  bool
		err error
	)
	switch cmd {
	case CmdPause:
		err = s.world.Pause()
	case CmdResume:
		err = s.world.Resume()
		s.last = s.clock.Now() // First delta after resume is small
	case CmdRestart:
		err = s.world.Restart()
		s.last = s.clock.Now()
	case CmdStop:
		s.world.Stop()
	case CmdToggleManualAim:
		on, err = s.world.ToggleManualAim()
	case CmdToggleCoop:
		on, err = s.world.ToggleCoop()
	case CmdToggleAutoFire:
		on = s.world.ToggleAutoFire()
	default:
		return false, fmt.Errorf("%w: %d", ErrUnknownCommand, int(cmd))
	}
	if err != nil {
		s.log.Debug("command rejected", "cmd", cmd, "err", err)
		return on, err
	}

	s.publishLocked()
	return on, nil
}

// Snapshot returns the latest published world snapshot.
func (s *Session) Snapshot() *world.Snapshot {
	return s.snapshot.Load()
}

// Subscribe registers an event subscriber. See event.Bus.Subscribe.
func (s *Session) Subscribe(buffer int) (<-chan event.Event, func()) {
	return s.bus.Subscribe(buffer)
}

// Close ends every subscription. Use it when the session is driven by Step
// instead of Run.
func (s *Session) Close() {
	s.bus.Close()
}
