// Package client is the terminal front-end: it decodes keys into intents and
// commands for a game session, walks the screen state machine, and draws
// session snapshots onto a half-block canvas.
package client

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfall/internal/audio"
	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/draw"
	"github.com/tomz197/starfall/internal/event"
	"github.com/tomz197/starfall/internal/input"
	loopconfig "github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/loop/server"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/world"
)

// bannerDuration is how long event banners stay on screen.
const bannerDuration = 3 * time.Second

var errNoInput = errors.New("client has no input reader")

var selectable = []object.Class{object.ClassLarge, object.ClassMedium, object.ClassSmall}

// Client handles rendering and input for a single terminal.
type Client struct {
	session      server.GameSession
	screens      *ScreenMachine
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	events       <-chan event.Event
	unsubscribe  func()
	audio        *audio.Player
	log          *log.Logger
	now          func() time.Time

	settings     config.Settings
	settingsPath string
	debugSeq     sequence

	running     bool
	inactivity  bool // Warn and disconnect idle users
	lastInput   time.Time
	isInactive  bool
	wasInactive bool

	choice      int // Highlighted spacecraft on the select screen
	message     string
	banner      string
	bannerUntil time.Time
}

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Settings     config.Settings
	SettingsPath string        // Where the debug toggle persists; empty keeps it in memory
	Audio        *audio.Player // Optional, for the sound toggle
	Inactivity   bool          // Enable idle warning and disconnect
	Logger       *log.Logger
}

// New creates a client bound to a session. The session's event feed is
// subscribed immediately so no run events are missed.
func New(gs server.GameSession, r *bufio.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	termWidth, termHeight, _ := draw.TerminalSize(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, loopconfig.ViewWidth, loopconfig.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	events, unsubscribe := gs.Subscribe(loopconfig.EventBufferSize)

	c := &Client{
		session:      gs,
		screens:      NewScreenMachine(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		termSizeFunc: termSizeFunc,
		events:       events,
		unsubscribe:  unsubscribe,
		audio:        opts.Audio,
		log:          logger,
		now:          time.Now,
		settings:     opts.Settings,
		settingsPath: opts.SettingsPath,
		debugSeq:     sequence{want: loopconfig.DebugSequence},
		running:      true,
		inactivity:   opts.Inactivity,
	}
	if r != nil {
		c.inputStream = input.StartStream(r)
	}
	c.lastInput = c.now()
	return c
}

// Screen returns the active screen.
func (c *Client) Screen() Screen { return c.screens.Current() }

// Settings returns the current cosmetic settings.
func (c *Client) Settings() config.Settings { return c.settings }

// Run drives the client until the user quits, the input closes, the
// session's event feed closes or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	defer c.unsubscribe()
	if c.inputStream == nil {
		return errNoInput
	}

	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	for c.running {
		frameStart := time.Now()

		if ctx.Err() != nil {
			break
		}

		in := input.ReadInput(c.inputStream)
		if in.Closed {
			break
		}
		c.update(in)
		c.processEvents()
		c.updateScreen()

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < loopconfig.ClientTargetFrameTime {
			time.Sleep(loopconfig.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// update handles one frame of input for the current screen.
func (c *Client) update(in input.Input) {
	now := c.now()
	if len(in.Raw) > 0 {
		c.lastInput = now
		if c.isInactive {
			// The key that dismisses the warning does nothing else
			c.isInactive = false
			return
		}
	} else if c.inactivity {
		idle := now.Sub(c.lastInput)
		if idle > loopconfig.InactivityDisconnectUser {
			c.log.Info("disconnecting idle client", "idle", idle.Round(time.Second))
			c.running = false
			return
		}
		c.isInactive = idle > loopconfig.InactivityWarnUser
	}

	switch c.screens.Current() {
	case ScreenMenu:
		c.updateMenu(in)
	case ScreenSelect:
		c.updateSelect(in)
	case ScreenGame:
		c.updateGame(in)
	case ScreenPaused:
		c.updatePaused(in)
	case ScreenGameOver:
		c.updateGameOver(in)
	case ScreenOptions:
		c.updateOptions(in)
	case ScreenExitConfirm:
		c.updateExitConfirm(in)
	}
}

// goTo changes screen. A rejected transition is a front-end bug, logged and
// otherwise ignored.
func (c *Client) goTo(s Screen) {
	if err := c.screens.Go(s); err != nil {
		c.log.Error("screen change", "err", err)
		return
	}
	c.message = ""
	if c.inputStream != nil {
		c.inputStream.Reset()
	}
}

// command sends a lifecycle command and reports whether it was accepted.
func (c *Client) command(cmd server.Command) bool {
	if _, err := c.session.Command(cmd); err != nil {
		c.log.Debug("command rejected", "cmd", cmd, "err", err)
		return false
	}
	return true
}

func (c *Client) updateMenu(in input.Input) {
	done, busy := c.debugSeq.feed(in.Raw)
	if done {
		c.toggleSkin()
		return
	}
	switch {
	case in.Tapped(input.KeyFire) || in.Tapped(input.KeyEnter):
		c.choice = 0
		c.goTo(ScreenSelect)
	case in.Tapped(input.KeyOptions):
		c.goTo(ScreenOptions)
	case !busy && (in.Tapped(input.KeyQuit) || in.Tapped(input.KeyEscape)):
		c.goTo(ScreenExitConfirm)
	}
}

// toggleSkin flips the cosmetic skin and persists it.
func (c *Client) toggleSkin() {
	c.settings.AltSkin = !c.settings.AltSkin
	c.canvas.ForceRedraw()
	c.log.Info("skin toggled", "alt", c.settings.AltSkin)
	if c.settingsPath == "" {
		return
	}
	if err := config.SaveSettings(c.settingsPath, c.settings); err != nil {
		c.log.Warn("could not save settings", "err", err)
	}
}

func (c *Client) updateSelect(in input.Input) {
	if class, ok := classForChoice(in.Number); ok {
		c.startRun(class)
		return
	}
	switch {
	case in.Tapped(input.KeyUp) || in.Tapped(input.KeyArrowUp):
		c.choice = (c.choice + len(selectable) - 1) % len(selectable)
	case in.Tapped(input.KeyDown) || in.Tapped(input.KeyArrowDown):
		c.choice = (c.choice + 1) % len(selectable)
	case in.Tapped(input.KeyFire) || in.Tapped(input.KeyEnter):
		c.startRun(selectable[c.choice])
	case in.Tapped(input.KeyEscape):
		c.goTo(ScreenMenu)
	}
}

func (c *Client) startRun(class object.Class) {
	if err := c.session.Start(class); err != nil {
		c.log.Error("start run", "class", class, "err", err)
		c.message = err.Error()
		return
	}
	c.banner = ""
	c.goTo(ScreenGame)
}

func (c *Client) updateGame(in input.Input) {
	snap := c.session.Snapshot()
	if snap.State == world.StateOver {
		c.goTo(ScreenGameOver)
		return
	}

	switch {
	case in.Tapped(input.KeyPause) || in.Tapped(input.KeyEscape):
		if c.command(server.CmdPause) {
			c.goTo(ScreenPaused)
		}
		return
	case in.Tapped(input.KeyQuit):
		if c.command(server.CmdPause) {
			c.goTo(ScreenExitConfirm)
		}
		return
	}

	p1, p2, coop := intents(in, snap.Options)
	c.session.SendIntent(0, p1)
	if coop {
		c.session.SendIntent(1, p2)
	}
}

func (c *Client) updatePaused(in input.Input) {
	switch {
	case in.Tapped(input.KeyPause) || in.Tapped(input.KeyFire) || in.Tapped(input.KeyEscape):
		if c.command(server.CmdResume) {
			c.goTo(ScreenGame)
		}
	case in.Tapped(input.KeyOptions):
		c.goTo(ScreenOptions)
	case in.Tapped(input.KeyRestart):
		if c.command(server.CmdRestart) {
			c.goTo(ScreenGame)
		}
	case in.Tapped(input.KeyMenu):
		c.command(server.CmdStop)
		c.goTo(ScreenMenu)
	case in.Tapped(input.KeyQuit):
		c.goTo(ScreenExitConfirm)
	}
}

func (c *Client) updateGameOver(in input.Input) {
	switch {
	case in.Tapped(input.KeyFire) || in.Tapped(input.KeyEnter) || in.Tapped(input.KeyRestart):
		if c.command(server.CmdRestart) {
			c.goTo(ScreenGame)
		}
	case in.Tapped(input.KeyMenu) || in.Tapped(input.KeyEscape):
		c.command(server.CmdStop)
		c.goTo(ScreenMenu)
	case in.Tapped(input.KeyQuit):
		c.goTo(ScreenExitConfirm)
	}
}

func (c *Client) updateOptions(in input.Input) {
	var cmd server.Command
	switch in.Number {
	case 1:
		cmd = server.CmdToggleManualAim
	case 2:
		cmd = server.CmdToggleCoop
	case 3:
		cmd = server.CmdToggleAutoFire
	case 4:
		if c.audio != nil {
			c.audio.SetMuted(c.audio.Enabled())
		}
		return
	default:
		if in.Tapped(input.KeyEscape) || in.Tapped(input.KeyOptions) {
			c.screens.Back()
			c.message = ""
		}
		return
	}

	on, err := c.session.Command(cmd)
	switch {
	case errors.Is(err, world.ErrModeConflict):
		c.message = "Manual aim and co-op cannot be combined"
	case err != nil:
		c.message = err.Error()
	default:
		c.message = ""
		c.log.Debug("option toggled", "cmd", cmd, "on", on)
	}
}

func (c *Client) updateExitConfirm(in input.Input) {
	switch {
	case in.Tapped(input.KeyYes) || in.Tapped(input.KeyQuit):
		c.command(server.CmdStop)
		c.running = false
	case in.Tapped(input.KeyNo) || in.Tapped(input.KeyEscape):
		to, err := c.screens.Back()
		if err != nil {
			c.log.Error("screen change", "err", err)
			return
		}
		if to == ScreenGame && !c.command(server.CmdResume) {
			c.goTo(ScreenPaused)
		}
	}
}

// processEvents drains session events into banners. A closed feed means the
// session is gone.
func (c *Client) processEvents() {
	for {
		select {
		case e, ok := <-c.events:
			if !ok {
				c.running = false
				return
			}
			switch e.Kind {
			case event.BossSpawned:
				c.showBanner("!! WARNING: MOTHERSHIP APPROACHING !!")
			case event.BossPhaseChanged:
				c.showBanner(phaseName(phaseFromDetail(e.Detail)))
			case event.BossDefeated:
				c.showBanner("MOTHERSHIP DESTROYED  +500")
			}
		default:
			return
		}
	}
}

func (c *Client) showBanner(s string) {
	c.banner = s
	c.bannerUntil = c.now().Add(bannerDuration)
}

func phaseFromDetail(d string) object.Phase {
	for _, p := range []object.Phase{object.PhaseBarrage, object.PhaseLaserSpin, object.PhaseHoming} {
		if p.String() == d {
			return p
		}
	}
	return object.PhaseBarrage
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSize(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, loopconfig.MaxTermWidth)
	renderHeight = min(termHeight, loopconfig.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// Screen or inactivity changes clear the terminal so text from the
	// previous screen does not linger.
	inactiveChanged := c.isInactive != c.wasInactive
	if c.screens.TakeChanged() || inactiveChanged {
		draw.ClearScreen(c.chunkWriter)
		c.canvas.ForceRedraw()
		c.wasInactive = c.isInactive
	}

	c.canvas.Clear()
	snap := c.session.Snapshot()

	screen := c.screens.Current()
	inRun := screen == ScreenGame || screen == ScreenPaused || screen == ScreenGameOver ||
		((screen == ScreenOptions || screen == ScreenExitConfirm) && snap.State != world.StateIdle)
	if inRun && !c.isInactive {
		drawWorld(c.canvas, snap, skinFor(c.settings.AltSkin))
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	if c.isInactive {
		c.drawInactivity()
		return c.chunkWriter.Flush()
	}

	switch screen {
	case ScreenMenu:
		c.drawMenu()
	case ScreenSelect:
		c.drawSelect()
	case ScreenGame:
		c.drawPopups(snap)
		c.drawHUD(snap)
	case ScreenPaused:
		c.drawHUD(snap)
		c.drawPaused()
	case ScreenGameOver:
		c.drawGameOver(snap)
	case ScreenOptions:
		c.drawOptions(snap)
	case ScreenExitConfirm:
		c.drawExitConfirm()
	}

	return c.chunkWriter.Flush()
}
