package audio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/starfall/internal/event"
)

type recorder struct {
	mu     sync.Mutex
	played []beep.Streamer
}

func (r *recorder) Play(s beep.Streamer) {
	r.mu.Lock()
	r.played = append(r.played, s)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.played)
}

// drain pulls every sample out of s and returns how many there were.
func drain(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok || n == 0 {
			return total
		}
	}
}

func TestEveryEventHasACue(t *testing.T) {
	for _, k := range []event.Kind{
		event.BulletFired, event.EnemyKilled, event.BossPhaseChanged, event.BossDefeated,
		event.PlayerDamaged, event.BossSpawned, event.PowerUpCollected, event.GameOver,
	} {
		cue, ok := CueFor(k)
		require.True(t, ok, k.String())
		assert.NotEmpty(t, cue.Name)
		assert.Positive(t, cue.Duration())
	}
}

func TestCueLengthMatchesDuration(t *testing.T) {
	cue, _ := CueFor(event.BossDefeated)
	want := 0
	for _, tone := range cue.Tones {
		want += SampleRate.N(tone.Duration)
	}
	assert.Equal(t, want, drain(cue.Streamer(SampleRate)))
}

func TestToneStaysInRange(t *testing.T) {
	tone := Tone{Freq: 200, Sweep: 60, Duration: 50 * time.Millisecond, Wave: WaveNoise, Volume: 0.3}
	s := tone.Streamer(SampleRate)
	buf := make([][2]float64, SampleRate.N(tone.Duration))
	n, _ := s.Stream(buf)
	require.Positive(t, n)
	for _, v := range buf[:n] {
		assert.LessOrEqual(t, v[0], 0.3+1e-9)
		assert.GreaterOrEqual(t, v[0], -0.3-1e-9)
	}
	assert.InDelta(t, 0, buf[n-1][0], 0.05, "tail fades out")
}

func TestDisabledPlayerIsSilent(t *testing.T) {
	p := New(Options{Enabled: false, Output: &recorder{}})
	assert.False(t, p.Enabled())
	assert.False(t, p.Handle(event.Event{Kind: event.EnemyKilled}))
}

func TestShotsAreSpaced(t *testing.T) {
	rec := &recorder{}
	p := New(Options{Enabled: true, Output: rec})
	now := time.Unix(100, 0)
	p.now = func() time.Time { return now }

	assert.True(t, p.Handle(event.Event{Kind: event.BulletFired}))
	assert.False(t, p.Handle(event.Event{Kind: event.BulletFired}))
	assert.True(t, p.Handle(event.Event{Kind: event.EnemyKilled}), "other cues are not throttled")

	now = now.Add(shotSpacing)
	assert.True(t, p.Handle(event.Event{Kind: event.BulletFired}))
	assert.Equal(t, 3, rec.count())
}

func TestMute(t *testing.T) {
	rec := &recorder{}
	p := New(Options{Enabled: true, Output: rec})
	p.SetMuted(true)
	assert.False(t, p.Handle(event.Event{Kind: event.GameOver}))
	p.SetMuted(false)
	assert.True(t, p.Handle(event.Event{Kind: event.GameOver}))
}

func TestRunDrainsFeed(t *testing.T) {
	rec := &recorder{}
	p := New(Options{Enabled: true, Output: rec})
	bus := event.NewBus()
	ch, _ := bus.Subscribe(8)

	done := make(chan struct{})
	go func() {
		p.Run(context.Background(), ch)
		close(done)
	}()

	bus.Publish(event.Event{Kind: event.BossSpawned}, event.Event{Kind: event.PowerUpCollected})
	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, time.Millisecond)

	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the feed closed")
	}
}
