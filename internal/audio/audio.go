// Package audio plays synthesized sound effects for simulation events. It
// only listens to the event feed; nothing in the game waits on it.
package audio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/starfall/internal/event"
)

const (
	SampleRate = beep.SampleRate(44100)

	// shotSpacing limits rapid-fire cues so double-fire does not become a buzz.
	shotSpacing = 50 * time.Millisecond
)

// Output accepts finished streamers. The speaker is the real one.
type Output interface {
	Play(s beep.Streamer)
}

type speakerOutput struct{}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }

var (
	speakerOnce sync.Once
	speakerErr  error
)

// initSpeaker opens the audio device once per process.
func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond))
	})
	return speakerErr
}

// Player turns events into sounds. A Player with no output is silent but
// still drains its feed.
type Player struct {
	out      Output
	log      *log.Logger
	mu       sync.Mutex
	muted    bool
	lastShot time.Time
	now      func() time.Time
}

// Options configures a Player.
type Options struct {
	Enabled bool
	Output  Output // Overrides the speaker; used by tests
	Logger  *log.Logger
}

// New creates a Player. When the audio device cannot be opened the error is
// logged and a silent Player is returned; sound is never fatal.
func New(opts Options) *Player {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	p := &Player{log: logger, now: time.Now}
	switch {
	case !opts.Enabled:
		logger.Debug("audio disabled")
	case opts.Output != nil:
		p.out = opts.Output
	default:
		if err := initSpeaker(); err != nil {
			logger.Warn("audio unavailable, continuing silently", "err", fmt.Errorf("open speaker: %w", err))
			break
		}
		p.out = speakerOutput{}
	}
	return p
}

// Enabled reports whether sounds reach an output.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out != nil && !p.muted
}

// SetMuted silences the player without closing the device.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
}

// Handle plays the cue for one event. It reports whether a sound was queued.
func (p *Player) Handle(e event.Event) bool {
	cue, ok := CueFor(e.Kind)
	if !ok {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil || p.muted {
		return false
	}
	if e.Kind == event.BulletFired {
		now := p.now()
		if now.Sub(p.lastShot) < shotSpacing {
			return false
		}
		p.lastShot = now
	}
	p.out.Play(cue.Streamer(SampleRate))
	return true
}

// Run plays events until the feed closes or ctx is done.
func (p *Player) Run(ctx context.Context, events <-chan event.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			p.Handle(e)
		}
	}
}
