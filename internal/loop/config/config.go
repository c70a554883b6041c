// Package config centralizes the tunables of the terminal front-end and the
// session runner. Gameplay constants live next to the code that uses them.
package config

import "time"

// View resolution - the canvas in logical units. The camera's 1000×700 world
// pixels are scaled onto it, and the canvas scales to the terminal.
const (
	ViewWidth  = 140 // Logical canvas width
	ViewHeight = 98  // Logical canvas height (in sub-pixels, so 49 terminal rows)
)

// Max render resolution. Larger terminals get a centered, bordered area.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 70
)

// HUD
const (
	BarWidth          = 20 // Health/shield/boss bar width in cells
	BossBarWidth      = 40
	PromptBlinkPeriod = 600 * time.Millisecond
)

// Input
const (
	// DebugSequence typed on the menu toggles the alternate skin.
	DebugSequence = "iddqd"
)

// Inactivity, SSH sessions only
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Session tick rate
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate
)

// Event fan-out
const (
	IntentQueueSize  = 64
	EventBufferSize  = 128 // Per subscriber
	ShutdownDeadline = 2 * time.Second
)
