// Package desktop runs a game session in an Ebiten window.
package desktop

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/input"
)

// WindowTitle is the window caption.
const WindowTitle = "Space Shooter"

// Options configures the desktop game.
type Options struct {
	Game     game.Options
	FontPath string
}

// Game adapts a game.Session to ebiten.Game.
type Game struct {
	session  *game.Session
	renderer *renderer
	last     time.Time
}

var _ ebiten.Game = (*Game)(nil)

// New loads the fonts and starts a session.
func New(opts Options) (*Game, error) {
	r, err := newRenderer(opts.FontPath)
	if err != nil {
		return nil, err
	}
	s, err := game.NewSession(opts.Game)
	if err != nil {
		return nil, err
	}
	return &Game{session: s, renderer: r}, nil
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run() error {
	ebiten.SetWindowSize(game.ScreenWidth, game.ScreenHeight)
	ebiten.SetWindowTitle(WindowTitle)
	// Movement and timers scale with measured time, so the frame rate is
	// left to the display.
	ebiten.SetTPS(ebiten.SyncWithFPS)
	defer g.session.Stop()
	return ebiten.RunGame(g)
}

// Session returns the running session.
func (g *Game) Session() *game.Session {
	return g.session
}

// Update steps the session by the time since the previous frame.
func (g *Game) Update() error {
	now := time.Now()
	var dt time.Duration
	if !g.last.IsZero() {
		dt = now.Sub(g.last)
	}
	g.last = now

	g.session.Update(readInput(ebiten.IsKeyPressed, inpututil.IsKeyJustPressed), dt)
	if !g.session.Running() {
		return ebiten.Termination
	}
	return nil
}

// Draw renders the session.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.draw(screen, g.session)
}

// Layout keeps the logical playfield size regardless of the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return game.ScreenWidth, game.ScreenHeight
}

// readInput maps the keyboard onto an Input. Arrows are held keys; fire,
// pause and restart fire once per press.
func readInput(pressed, justPressed func(ebiten.Key) bool) input.Input {
	return input.Input{
		Left:    pressed(ebiten.KeyArrowLeft),
		Right:   pressed(ebiten.KeyArrowRight),
		Up:      pressed(ebiten.KeyArrowUp),
		Down:    pressed(ebiten.KeyArrowDown),
		Fire:    justPressed(ebiten.KeySpace),
		Pause:   justPressed(ebiten.KeyEscape),
		Restart: justPressed(ebiten.KeyR),
	}
}
