package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/starfall/internal/draw"
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/world"
)

// bar renders value/max as a fixed-width gauge.
func bar(value, total, width int) string {
	filled := 0
	if total > 0 {
		filled = value * width / total
	}
	filled = min(max(filled, 0), width)
	return strings.Repeat(string(draw.BlockFull), filled) + strings.Repeat(string(draw.BlockLight), width-filled)
}

// clockText formats a duration as m:ss.
func clockText(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func specialText(p world.PlayerView) string {
	name := strings.ToUpper(p.Special.String())
	if p.SpecialIn <= 0 {
		return name + " ready"
	}
	return fmt.Sprintf("%s %2ds", name, int(p.SpecialIn.Seconds()+0.999))
}

// phaseName is the boss phase as shown in the HUD.
func phaseName(p object.Phase) string {
	return strings.ReplaceAll(strings.ToUpper(p.String()), "_", " ")
}

var popupColors = map[object.PopupKind]draw.Color{
	object.PopupDamageDealt: draw.ColorWhite,
	object.PopupDamageTaken: draw.ColorRed,
	object.PopupShield:      draw.ColorBlue,
	object.PopupPickup:      draw.ColorGreen,
}

// centered writes s centered on row.
func (c *Client) centered(row int, s string) {
	col := c.canvas.TerminalWidth()/2 - len([]rune(s))/2
	c.chunkWriter.WriteAt(max(1, col), row, s)
}

// drawPopups writes floating damage numbers over the canvas.
func (c *Client) drawPopups(s *world.Snapshot) {
	v := newView(s.Camera)
	termW, termH := c.canvas.TerminalWidth(), c.canvas.TerminalHeight()
	for _, p := range s.Popups {
		col := popupColors[p.Kind].Fade(p.Alpha)
		if col == draw.ColorNone || !v.visible(p.X, p.Y, 0) {
			continue
		}
		pt := v.point(p.X, p.Y)
		tc, tr := c.canvas.LogicalToTerminal(pt.X, pt.Y)
		tc -= len(p.Text) / 2
		if tr < 1 || tr > termH || tc < 1 || tc+len(p.Text) > termW {
			continue
		}
		c.chunkWriter.WriteAtColor(tc, tr, col, p.Text)
		c.canvas.MarkTextDirty(tc, tr, len(p.Text))
	}
}

// drawHUD writes the in-run overlay. Fields are padded so shrinking values
// overwrite their previous text.
func (c *Client) drawHUD(s *world.Snapshot) {
	cw := c.chunkWriter
	termW, termH := c.canvas.TerminalWidth(), c.canvas.TerminalHeight()

	left := fmt.Sprintf("Score: %-8d Level: %-3d", s.Score, s.Level)
	cw.WriteAt(2, 1, left)
	right := fmt.Sprintf("Time %6s", clockText(s.Elapsed))
	cw.WriteAt(termW-len(right), 1, right)

	for i, p := range s.Players {
		row := termH - len(s.Players) + i + 1
		label := fmt.Sprintf("P%d", p.Index+1)
		line := fmt.Sprintf("%s HP %s %4d/%-4d", label, bar(p.Health, p.MaxHealth, config.BarWidth), p.Health, p.MaxHealth)
		if p.ShieldMax > 0 && p.Shield > 0 {
			line += fmt.Sprintf("  SH %s", bar(p.Shield, p.ShieldMax, config.BarWidth/2))
		} else {
			line += strings.Repeat(" ", 5+config.BarWidth/2)
		}
		line += "  " + fmt.Sprintf("%-18s", specialText(p))
		cw.WriteAt(2, row, line)
	}

	var modes []string
	if s.Options.ManualAim {
		modes = append(modes, "MANUAL")
	}
	if s.Options.Coop {
		modes = append(modes, "CO-OP")
	}
	if s.Options.AutoFire {
		modes = append(modes, "AUTO-FIRE")
	}
	modeText := fmt.Sprintf("%24s", strings.Join(modes, " "))
	cw.WriteAt(termW-len(modeText), termH, modeText)

	switch {
	case s.Boss != nil && !s.Boss.Dying:
		b := s.Boss
		c.centered(2, fmt.Sprintf("BOSS %s", bar(b.Health, b.MaxHealth, config.BossBarWidth)))
		c.centered(3, fmt.Sprintf("%-12s %5s", phaseName(b.Phase), clockText(b.PhaseLeft)))
	case !s.BossSpawned && s.BossIn > 0:
		c.centered(2, fmt.Sprintf("Boss in %s", clockText(s.BossIn)))
	case s.BossDefeated:
		c.centered(2, "BOSS DEFEATED")
	}

	if c.banner != "" && c.now().Before(c.bannerUntil) {
		c.centered(termH/2-6, c.banner)
	}
}

func (c *Client) blinkOn() bool {
	return c.now().UnixMilli()/config.PromptBlinkPeriod.Milliseconds()%2 == 0
}

var titleArt = []string{
	` ___ _____ _   ___ ___ _   _    _    `,
	`/ __|_   _/_\ | _ \ __/_\ | |  | |   `,
	`\__ \ | |/ _ \|   / _/ _ \| |__| |__ `,
	`|___/ |_/_/ \_\_|_\_/_/ \_\____|____|`,
}

func (c *Client) drawMenu() {
	top := c.canvas.TerminalHeight()/2 - 8
	for i, line := range titleArt {
		c.centered(top+i, line)
	}
	c.centered(top+len(titleArt)+1, "~ survive the swarm, break the mothership ~")

	lines := []string{
		"WASD  . . . . . . Move",
		"SPACE . . . . . . Fire",
		"E . . . . . . .  Special",
		"Arrows  . Aim / Player 2",
		"P / ESC . . . . . Pause",
	}
	for i, line := range lines {
		c.centered(top+len(titleArt)+3+i, line)
	}
	row := top + len(titleArt) + len(lines) + 4
	if c.blinkOn() {
		c.centered(row, ">>  Press SPACE to Start  <<")
	} else {
		c.centered(row, strings.Repeat(" ", 28))
	}
	c.centered(row+2, "O  Options    Q  Quit")
	if c.settings.AltSkin {
		c.centered(row+4, "(alternate skin)")
	}
}

func (c *Client) drawSelect() {
	top := c.canvas.TerminalHeight()/2 - 6
	c.centered(top, "CHOOSE YOUR SPACECRAFT")
	for i, class := range selectable {
		stats, err := object.StatsForClass(class)
		if err != nil {
			continue
		}
		marker := "  "
		if i == c.choice {
			marker = "> "
		}
		line := fmt.Sprintf("%s%d  %-7s HP %3d  SPD %3.0f  %-11s %2ds",
			marker, i+1, strings.ToUpper(class.String()), stats.MaxHealth, stats.Speed,
			strings.ToUpper(stats.Special.String()), int(stats.SpecialCooldown.Seconds()))
		c.centered(top+2+i*2, line)
	}
	c.centered(top+9, "1-3 or W/S to choose, SPACE to launch, ESC to go back")
	if c.message != "" {
		c.centered(top+11, c.message)
	}
}

func (c *Client) drawPaused() {
	mid := c.canvas.TerminalHeight() / 2
	c.centered(mid-3, "P A U S E D")
	c.centered(mid-1, "P / SPACE  Resume")
	c.centered(mid, "O  Options")
	c.centered(mid+1, "R  Restart")
	c.centered(mid+2, "M  Main menu")
	c.centered(mid+3, "Q  Quit")
}

var gameOverArt = []string{
	`  ___   _   __  __ ___    _____   _____ ___  `,
	` / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	`| (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	` \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

func (c *Client) drawGameOver(s *world.Snapshot) {
	top := c.canvas.TerminalHeight()/2 - 6
	for i, line := range gameOverArt {
		c.centered(top+i, line)
	}
	c.centered(top+len(gameOverArt)+1, fmt.Sprintf("Score: %d   Level: %d   Time: %s", s.Score, s.Level, clockText(s.Elapsed)))
	if c.blinkOn() {
		c.centered(top+len(gameOverArt)+3, ">>  Press SPACE to Restart  <<")
	} else {
		c.centered(top+len(gameOverArt)+3, strings.Repeat(" ", 30))
	}
	c.centered(top+len(gameOverArt)+5, "M  Main menu    Q  Quit")
}

func onOff(b bool) string {
	if b {
		return "ON "
	}
	return "OFF"
}

func (c *Client) drawOptions(s *world.Snapshot) {
	mid := c.canvas.TerminalHeight() / 2
	c.centered(mid-4, "O P T I O N S")
	c.centered(mid-2, fmt.Sprintf("1  Manual aim   %s", onOff(s.Options.ManualAim)))
	c.centered(mid-1, fmt.Sprintf("2  Co-op        %s", onOff(s.Options.Coop)))
	c.centered(mid, fmt.Sprintf("3  Auto-fire    %s", onOff(s.Options.AutoFire)))
	audio := "n/a"
	if c.audio != nil {
		audio = onOff(c.audio.Enabled())
	}
	c.centered(mid+1, fmt.Sprintf("4  Sound        %s", audio))
	c.centered(mid+3, "ESC  Back")
	c.centered(mid+5, fmt.Sprintf("%-40s", c.message))
}

func (c *Client) drawExitConfirm() {
	mid := c.canvas.TerminalHeight() / 2
	c.centered(mid-1, "Really quit?")
	c.centered(mid+1, "Y  Yes    N  No")
}

func (c *Client) drawInactivity() {
	mid := c.canvas.TerminalHeight() / 2
	c.centered(mid-2, "INACTIVITY WARNING")
	left := config.InactivityDisconnectUser - c.now().Sub(c.lastInput)
	c.centered(mid, fmt.Sprintf("You will be disconnected in %d seconds.", int(left.Seconds())))
	c.centered(mid+2, "Press any key to continue")
}
