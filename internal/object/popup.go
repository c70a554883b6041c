package object

import (
	"strconv"
	"time"
)

// Popup tuning.
const (
	PopupLifetime = 1000 * time.Millisecond
	PopupRise     = 30.0 // Pixels per second
)

// PopupKind colors the popup text.
type PopupKind int

const (
	PopupDamageDealt PopupKind = iota
	PopupDamageTaken
	PopupShield
	PopupPickup
)

// Popup is floating text over a hit. Cosmetic only.
type Popup struct {
	X, Y      float64
	Text      string
	Kind      PopupKind
	Born      time.Duration
	Alpha     float64
	destroyed bool
}

// NewDamagePopup creates a popup showing an amount.
func NewDamagePopup(x, y float64, amount int, kind PopupKind, now time.Duration) *Popup {
	return NewPopup(x, y, strconv.Itoa(amount), kind, now)
}

// NewPopup creates a popup with arbitrary text.
func NewPopup(x, y float64, text string, kind PopupKind, now time.Duration) *Popup {
	return &Popup{X: x, Y: y, Text: text, Kind: kind, Born: now, Alpha: 1}
}

// MarkDestroyed marks the popup for removal.
func (p *Popup) MarkDestroyed() {
	p.destroyed = true
}

// IsDestroyed returns true if the popup is marked for destruction.
func (p *Popup) IsDestroyed() bool {
	return p.destroyed
}

// Update floats the popup upward and fades it.
func (p *Popup) Update(ctx UpdateContext) bool {
	age := ctx.Now - p.Born
	if age >= PopupLifetime {
		return true
	}
	p.Y -= PopupRise * ctx.Delta.Seconds()
	p.Alpha = 1 - float64(age)/float64(PopupLifetime)
	return false
}
