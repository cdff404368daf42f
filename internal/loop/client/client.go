// Package client runs one game session in a terminal: it reads keys from a
// byte stream, steps the session and renders it with half-block characters.
// The same client serves a local tty and every SSH connection.
package client

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spaceshooter/internal/draw"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/input"
	"github.com/tomz197/spaceshooter/internal/loop/server"
)

// Client handles rendering and input for a single connection.
type Client struct {
	hub          server.SessionHub
	handle       *server.ClientHandle
	session      *game.Session
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	idleWarn     time.Duration
	idleKick     time.Duration
	log          *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	// Hub is optional; a local terminal runs without one.
	Hub server.SessionHub
	// Game configures the session. Its OnGameOver hook still fires.
	Game game.Options
	// IdleWarn and IdleDisconnect enable the inactivity screen and kick
	// when positive.
	IdleWarn       time.Duration
	IdleDisconnect time.Duration
	Logger         *log.Logger
}

// NewClient creates a client and its game session.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	c := &Client{
		hub:          opts.Hub,
		state:        NewClientState(),
		writer:       w,
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		idleWarn:     opts.IdleWarn,
		idleKick:     opts.IdleDisconnect,
		log:          logger,
	}
	if c.hub != nil {
		c.handle = c.hub.RegisterClient(opts.Username)
		c.log = c.log.With("session", c.handle.SessionID)
	}

	gameOpts := opts.Game
	gameOpts.Logger = c.log
	userHook := gameOpts.OnGameOver
	gameOpts.OnGameOver = func(score, best int) {
		if c.hub != nil {
			c.hub.ReportGameOver(c.handle.ID, score, best)
		}
		if userHook != nil {
			userHook(score, best)
		}
	}
	session, err := game.NewSession(gameOpts)
	if err != nil {
		if c.hub != nil {
			c.hub.UnregisterClient(c.handle.ID)
		}
		return nil, fmt.Errorf("start session: %w", err)
	}
	c.session = session

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	c.canvas = draw.NewScaledCanvas(renderWidth, renderHeight, game.ScreenWidth, game.ScreenHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter = draw.NewChunkWriter(w, offsetCol, offsetRow)
	c.inputStream = input.StartStream(r)
	return c, nil
}

// Session returns the client's game session.
func (c *Client) Session() *game.Session {
	return c.session
}

// Run starts the client loop. Blocks until the player quits, the input
// ends or the hub shuts down.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	defer func() {
		c.session.Stop()
		if c.hub != nil {
			c.hub.UnregisterClient(c.handle.ID)
		}
		draw.ClearScreen(c.writer)
	}()

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processHubEvents()
		c.updateScreen()

		if c.state.ShuttingDown {
			c.updateShutdownState()
		} else if !c.state.isInactive {
			c.session.Update(c.state.Input, c.state.delta)
			if !c.session.Running() {
				c.state.Running = false
			}
		}

		if !c.state.Running {
			break
		}
		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < TargetFrameTime {
			time.Sleep(TargetFrameTime - elapsed)
		}
	}

	return nil
}

// processInput reads this frame's keys and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if c.state.Input.Quit {
		c.state.Running = false
		return
	}

	if anyInput(c.state.Input) {
		c.lastInput = time.Now()
		if c.state.isInactive {
			// The key that dismisses the warning is not a game input.
			c.state.Input = input.Input{}
		}
		c.state.isInactive = false
		return
	}

	idle := time.Since(c.lastInput)
	switch {
	case c.idleKick > 0 && idle > c.idleKick:
		c.log.Info("disconnecting idle session", "idle", idle.Round(time.Second))
		c.state.Running = false
	case c.idleWarn > 0 && idle > c.idleWarn:
		c.state.isInactive = true
	}
}

// processHubEvents handles events from the hub.
func (c *Client) processHubEvents() {
	if c.handle == nil {
		return
	}
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			if event.Type == server.EventServerShutdown && !c.state.ShuttingDown {
				c.state.ShuttingDown = true
				c.state.shutdownTimer = ShutdownDisplay
				c.session.Stop()
			}
		default:
			return
		}
	}
}

// updateShutdownState counts down the shutdown notice.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// updateScreen handles terminal resize. On actual size changes it clears the
// terminal to remove residue outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.WriteString(draw.ColorReset + "\033[H\033[2J")
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize picks the largest render area with the playfield's aspect
// ratio (two sub-pixels per row) that fits the terminal, and centres it.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	w := min(max(termWidth, MinTermWidth), MaxTermWidth)
	h := min(max(termHeight, MinTermHeight), MaxTermHeight)

	// width / (2 * height) == ScreenWidth / ScreenHeight
	renderWidth = min(w, 2*h*game.ScreenWidth/game.ScreenHeight)
	renderHeight = min(h, renderWidth*game.ScreenHeight/(2*game.ScreenWidth))
	renderHeight = max(renderHeight, 1)

	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}
