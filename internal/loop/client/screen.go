package client

import (
	"fmt"
	"image/color"
	"time"

	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// HUD layout in logical pixels.
const (
	scoreX       = game.ScreenWidth / 2
	scoreY       = game.ScreenHeight - 50
	pipX         = 30
	pipSpacing   = 40
	pipY         = 30
	pipRadius    = 15
	boxLineWidth = 5
	// Logical height of one text line; used to size the boxes around text.
	textLineHeight = 30
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On mode, shutdown or inactivity transitions, do a full terminal clear
	// so text from the previous screen doesn't persist.
	mode := c.session.Mode()
	if mode != c.state.prevMode ||
		c.state.ShuttingDown != c.state.prevShutdown ||
		c.state.isInactive != c.state.wasInactive {
		c.chunkWriter.WriteString(draw.ColorReset + "\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevMode = mode
		c.state.prevShutdown = c.state.ShuttingDown
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Fill(backgroundColor)

	if c.state.ShuttingDown {
		c.canvas.Render(c.chunkWriter)
		c.drawShutdownScreen()
		return c.chunkWriter.Flush()
	}

	for _, e := range c.session.Drawables() {
		c.canvas.DrawImage(e.Image, e.X, e.Y)
	}

	var texts []hudText
	switch mode {
	case game.ModeRunning:
		texts = c.drawScore()
	case game.ModePaused:
		texts = append(c.drawScore(), c.drawPauseMenu()...)
	case game.ModeGameOver:
		texts = c.drawGameOver()
	}
	if mode != game.ModeGameOver {
		c.drawHealth()
	}
	if c.state.isInactive {
		texts = c.inactivityTexts()
	}

	c.canvas.Render(c.chunkWriter)
	for _, t := range texts {
		c.writeText(t)
	}
	return c.chunkWriter.Flush()
}

// hudText is a line of text centred on a logical point.
type hudText struct {
	s    string
	x, y float64
	fg   color.RGBA
}

// writeText writes t over the rendered canvas. The covered cells are
// marked dirty so the next Render paints over stale characters.
func (c *Client) writeText(t hudText) {
	col, row := c.canvas.LogicalToTerminal(t.x, t.y)
	n := len(t.s)
	col = max(col-n/2, 1)
	if col+n-1 > c.canvas.TerminalWidth() {
		n = max(c.canvas.TerminalWidth()-col+1, 0)
	}
	if n == 0 || row < 1 || row > c.canvas.TerminalHeight() {
		return
	}
	// Text cells take the colour of the pixels they cover as background.
	bg := c.canvas.At(col-1, (row-1)*2+1)
	c.chunkWriter.WriteColoredAt(col, row, t.s[:n], t.fg, bg)
	c.canvas.MarkTextDirty(col, row, n)
}

// textRect approximates the logical extent of s centred on (x, y).
func (c *Client) textRect(s string, x, y float64) physics.Rect {
	// One character is one terminal column wide.
	charWidth := c.canvas.LogicalWidth() / float64(c.canvas.TerminalWidth())
	return physics.RectFromCenter(x, y, float64(len(s))*charWidth, textLineHeight)
}

// drawScore draws the score box and returns the score text.
func (c *Client) drawScore() []hudText {
	s := fmt.Sprintf("%d", c.session.Score())
	// Score text sits with its midbottom on (scoreX, scoreY).
	cy := float64(scoreY) - textLineHeight/2
	box := c.textRect(s, scoreX, cy).Inflate(20, 10).Move(0, -8)
	c.canvas.DrawRect(box.Left(), box.Top(), box.Right(), box.Bottom(), boxLineWidth, textColor)
	return []hudText{{s: s, x: scoreX, y: cy, fg: textColor}}
}

// drawHealth draws one pip per point of max health, filled for the
// remaining ones.
func (c *Client) drawHealth() {
	health := c.session.Health()
	for i := 0; i < game.MaxHealth; i++ {
		col := pipEmptyColor
		if i < health {
			col = pipFullColor
		}
		c.canvas.DrawCircle(float64(pipX+pipSpacing*i), pipY, pipRadius, true, col)
	}
}

// drawPauseMenu draws the pause box and returns its texts.
func (c *Client) drawPauseMenu() []hudText {
	cx, cy := float64(game.ScreenWidth)/2, float64(game.ScreenHeight)/2
	title := hudText{s: "PAUSED", x: cx, y: cy - 40, fg: textColor}
	hint := hudText{s: "Press ESC to Resume", x: cx, y: cy + 20, fg: textColor}

	top := c.textRect(title.s, title.x, title.y)
	bottom := c.textRect(hint.s, hint.x, hint.y)
	left := min(top.Left(), bottom.Left())
	right := max(top.Right(), bottom.Right())
	box := physics.Rect{X: left, Y: top.Top(), W: right - left, H: bottom.Bottom() - top.Top()}.Inflate(40, 20)
	c.canvas.FillRect(box.Left(), box.Top(), box.Right(), box.Bottom(), backgroundColor, 255)
	c.canvas.DrawRect(box.Left(), box.Top(), box.Right(), box.Bottom(), boxLineWidth, textColor)
	return []hudText{title, hint}
}

// drawGameOver fades the playfield out and returns the game-over texts.
func (c *Client) drawGameOver() []hudText {
	overlay := c.session.Overlay()
	if overlay == nil {
		return nil
	}
	alpha := uint8(min(max(overlay.Alpha, 0), game.OverlayMaxAlpha))
	c.canvas.FillRect(0, 0, game.ScreenWidth, game.ScreenHeight, backgroundColor, alpha)

	cx, cy := float64(game.ScreenWidth)/2, float64(game.ScreenHeight)/2
	return []hudText{
		{s: "GAME OVER", x: cx, y: cy - 100, fg: textColor},
		{s: fmt.Sprintf("Score: %d", overlay.Score), x: cx, y: cy - 20, fg: textColor},
		{s: fmt.Sprintf("High Score: %d", overlay.HighScore), x: cx, y: cy + 20, fg: textColor},
		{s: "Press R to Restart", x: cx, y: cy + 160, fg: hintColor},
	}
}

// inactivityTexts returns the inactivity warning.
func (c *Client) inactivityTexts() []hudText {
	cx, cy := float64(game.ScreenWidth)/2, float64(game.ScreenHeight)/2
	texts := []hudText{{s: "INACTIVITY WARNING", x: cx, y: cy - 60, fg: textColor}}
	if c.idleKick > 0 {
		left := max(c.idleKick-time.Since(c.lastInput), 0)
		texts = append(texts, hudText{
			s:  fmt.Sprintf("You will be disconnected in %d seconds.", int(left.Seconds())),
			x:  cx,
			y:  cy,
			fg: textColor,
		})
	}
	return append(texts, hudText{s: "Press any key to continue", x: cx, y: cy + 60, fg: hintColor})
}

// drawShutdownScreen draws the server shutdown notice.
func (c *Client) drawShutdownScreen() {
	cx, cy := float64(game.ScreenWidth)/2, float64(game.ScreenHeight)/2
	secs := max(int(c.state.shutdownTimer.Seconds()), 0)
	for _, t := range []hudText{
		{s: "SERVER SHUTTING DOWN", x: cx, y: cy - 60, fg: textColor},
		{s: "The server is restarting. Please reconnect shortly.", x: cx, y: cy, fg: textColor},
		{s: fmt.Sprintf("Disconnecting in %d seconds...", secs), x: cx, y: cy + 60, fg: hintColor},
	} {
		c.writeText(t)
	}
}
