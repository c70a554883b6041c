// Package event defines the discrete notifications the simulation emits for
// collaborators such as the audio layer, and a fan-out bus to deliver them.
package event

import "sync"

// Kind identifies the type of a simulation event.
type Kind int

const (
	BulletFired Kind = iota
	EnemyKilled
	BossPhaseChanged
	BossDefeated
	PlayerDamaged
	BossSpawned
	PowerUpCollected
	GameOver
)

var kindNames = [...]string{
	BulletFired:      "bullet_fired",
	EnemyKilled:      "enemy_killed",
	BossPhaseChanged: "boss_phase_changed",
	BossDefeated:     "boss_defeated",
	PlayerDamaged:    "player_damaged",
	BossSpawned:      "boss_spawned",
	PowerUpCollected: "powerup_collected",
	GameOver:         "game_over",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Event is a single notification. Fields not relevant to the Kind are zero.
type Event struct {
	Kind   Kind
	X, Y   float64 // World position where it happened
	Amount int     // Damage taken, score awarded, etc.
	Player int     // Player index for player-scoped events
	Detail string  // Phase name, power-up type, enemy type
}

// Sink receives events. The world writes into a Sink during a tick.
type Sink interface {
	Emit(e Event)
}

// Buffer is a Sink that collects events until drained.
type Buffer struct {
	events []Event
}

// Emit appends the event.
func (b *Buffer) Emit(e Event) {
	b.events = append(b.events, e)
}

// Drain returns the collected events and resets the buffer. The returned
// slice is owned by the caller.
func (b *Buffer) Drain() []Event {
	if len(b.events) == 0 {
		return nil
	}
	out := make([]Event, len(b.events))
	copy(out, b.events)
	b.events = b.events[:0]
	return out
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	return len(b.events)
}

// Bus fans events out to subscribers over buffered channels. A slow
// subscriber drops events instead of stalling the publisher.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber and returns its channel and an
// unsubscribe function. The channel is closed on unsubscribe or Close.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Publish delivers events to every subscriber without blocking.
func (b *Bus) Publish(events ...Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		for _, e := range events {
			select {
			case ch <- e:
			default:
				// Subscriber is behind, drop
			}
		}
	}
}

// Close closes every subscriber channel. Publish after Close is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}
