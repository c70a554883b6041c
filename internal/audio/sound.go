package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/tomz197/starfall/internal/event"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveNoise
)

// Tone is one synthesized note, optionally sweeping from Freq to Sweep.
type Tone struct {
	Freq     float64
	Sweep    float64 // End frequency; 0 keeps Freq
	Duration time.Duration
	Wave     Wave
	Volume   float64 // Linear gain, 0..1
}

// Cue is the sound for one event: tones played back to back.
type Cue struct {
	Name  string
	Tones []Tone
}

// Duration is the total length of the cue.
func (c Cue) Duration() time.Duration {
	var d time.Duration
	for _, t := range c.Tones {
		d += t.Duration
	}
	return d
}

var cues = map[event.Kind]Cue{
	event.BulletFired: {Name: "shot", Tones: []Tone{
		{Freq: 880, Sweep: 440, Duration: 60 * time.Millisecond, Wave: WaveSquare, Volume: 0.12},
	}},
	event.EnemyKilled: {Name: "explosion", Tones: []Tone{
		{Freq: 200, Sweep: 60, Duration: 220 * time.Millisecond, Wave: WaveNoise, Volume: 0.3},
	}},
	event.PlayerDamaged: {Name: "hurt", Tones: []Tone{
		{Freq: 140, Sweep: 90, Duration: 120 * time.Millisecond, Wave: WaveSquare, Volume: 0.25},
	}},
	event.BossSpawned: {Name: "alarm", Tones: []Tone{
		{Freq: 330, Duration: 200 * time.Millisecond, Wave: WaveSquare, Volume: 0.2},
		{Freq: 262, Duration: 200 * time.Millisecond, Wave: WaveSquare, Volume: 0.2},
		{Freq: 330, Duration: 200 * time.Millisecond, Wave: WaveSquare, Volume: 0.2},
	}},
	event.BossPhaseChanged: {Name: "phase", Tones: []Tone{
		{Freq: 220, Sweep: 660, Duration: 300 * time.Millisecond, Wave: WaveSine, Volume: 0.3},
	}},
	event.BossDefeated: {Name: "victory", Tones: []Tone{
		{Freq: 523, Duration: 150 * time.Millisecond, Wave: WaveSine, Volume: 0.3},
		{Freq: 659, Duration: 150 * time.Millisecond, Wave: WaveSine, Volume: 0.3},
		{Freq: 784, Duration: 300 * time.Millisecond, Wave: WaveSine, Volume: 0.3},
	}},
	event.PowerUpCollected: {Name: "pickup", Tones: []Tone{
		{Freq: 988, Duration: 70 * time.Millisecond, Wave: WaveSine, Volume: 0.25},
		{Freq: 1319, Duration: 140 * time.Millisecond, Wave: WaveSine, Volume: 0.25},
	}},
	event.GameOver: {Name: "game_over", Tones: []Tone{
		{Freq: 392, Duration: 250 * time.Millisecond, Wave: WaveSine, Volume: 0.3},
		{Freq: 311, Duration: 250 * time.Millisecond, Wave: WaveSine, Volume: 0.3},
		{Freq: 196, Sweep: 98, Duration: 600 * time.Millisecond, Wave: WaveSine, Volume: 0.3},
	}},
}

// CueFor returns the sound for an event kind.
func CueFor(k event.Kind) (Cue, bool) {
	c, ok := cues[k]
	return c, ok
}

// Streamer renders the cue at the given sample rate.
func (c Cue) Streamer(rate beep.SampleRate) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(c.Tones))
	for _, t := range c.Tones {
		parts = append(parts, t.Streamer(rate))
	}
	return beep.Seq(parts...)
}

// Streamer renders one tone with a short fade out so it does not click.
func (t Tone) Streamer(rate beep.SampleRate) beep.Streamer {
	n := rate.N(t.Duration)
	var src beep.Streamer
	if t.Wave == WaveSine && t.Sweep == 0 {
		if s, err := generators.SineTone(rate, t.Freq); err == nil {
			src = s
		}
	}
	if src == nil {
		src = &sweep{from: t.Freq, to: t.Sweep, wave: t.Wave, rate: rate, total: n}
	}
	return gain(fadeOut(beep.Take(n, src), n, rate.N(15*time.Millisecond)), t.Volume)
}

// sweep is an oscillator whose frequency moves linearly over its length.
type sweep struct {
	from, to float64
	wave     Wave
	rate     beep.SampleRate
	total    int
	pos      int
	phase    float64
}

func (s *sweep) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		freq := s.from
		if s.to > 0 && s.total > 0 {
			freq += (s.to - s.from) * float64(s.pos) / float64(s.total)
		}
		var v float64
		switch s.wave {
		case WaveSquare:
			v = 1
			if s.phase >= 0.5 {
				v = -1
			}
		case WaveNoise:
			v = rand.Float64()*2 - 1
		default:
			v = math.Sin(2 * math.Pi * s.phase)
		}
		samples[i][0], samples[i][1] = v, v
		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// fadeOut ramps the last n samples of a stream of known length to zero.
func fadeOut(s beep.Streamer, length, n int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		got, ok := s.Stream(samples)
		for i := 0; i < got; i++ {
			if left := length - pos; left < n {
				k := float64(left) / float64(n)
				samples[i][0] *= k
				samples[i][1] *= k
			}
			pos++
		}
		return got, ok
	})
}

// gain applies a linear volume through effects.Volume, which works in log2.
func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
