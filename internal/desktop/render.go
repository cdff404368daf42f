package desktop

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// Font sizes
const (
	largeFontSize = 40
	smallFontSize = 30
)

// HUD layout
const (
	scoreX       = game.ScreenWidth / 2
	scoreY       = game.ScreenHeight - 50
	pipX         = 30
	pipSpacing   = 40
	pipY         = 30
	pipRadius    = 15
	boxLineWidth = 5
)

var (
	backgroundColor = color.RGBA{R: 0x3a, G: 0x2e, B: 0x3f, A: 0xff}
	textColor       = color.RGBA{R: 240, G: 240, B: 240, A: 0xff}
	pipFullColor    = color.RGBA{R: 240, G: 240, B: 240, A: 0xff}
	pipEmptyColor   = color.RGBA{R: 100, G: 100, B: 100, A: 0xff}
	hintColor       = color.RGBA{R: 200, G: 200, B: 200, A: 0xff}
)

// renderer draws a session onto an Ebiten screen.
type renderer struct {
	large  *text.GoTextFace
	small  *text.GoTextFace
	images imageCache
}

func newRenderer(fontPath string) (*renderer, error) {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", fontPath, err)
	}
	return &renderer{
		large:  &text.GoTextFace{Source: src, Size: largeFontSize},
		small:  &text.GoTextFace{Source: src, Size: smallFontSize},
		images: imageCache{},
	}, nil
}

func (r *renderer) draw(screen *ebiten.Image, s *game.Session) {
	screen.Fill(backgroundColor)

	for _, e := range s.Drawables() {
		r.drawEntity(screen, e)
	}

	switch s.Mode() {
	case game.ModeRunning:
		r.drawScore(screen, s.Score())
		r.drawHealth(screen, s.Health())
	case game.ModePaused:
		r.drawScore(screen, s.Score())
		r.drawHealth(screen, s.Health())
		r.drawPauseMenu(screen)
	case game.ModeGameOver:
		if o := s.Overlay(); o != nil {
			r.drawGameOver(screen, o)
		}
	}
}

// drawEntity draws e centred on its position. Meteors are drawn from the
// pristine sprite with the rotation applied by the GPU.
func (r *renderer) drawEntity(screen *ebiten.Image, e *object.Entity) {
	src := e.Image
	rotate := e.Kind == object.KindMeteor && e.Source != nil
	if rotate {
		src = e.Source
	}
	img := r.images.get(src)
	if img == nil {
		return
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
	if rotate {
		// Angles are counter-clockwise; y grows downward on screen.
		op.GeoM.Rotate(-e.Meteor.Angle * math.Pi / 180)
	}
	op.GeoM.Translate(e.X, e.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

func (r *renderer) drawScore(screen *ebiten.Image, score int) {
	s := fmt.Sprintf("%d", score)
	w, h := text.Measure(s, r.large, 0)

	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignEnd
	op.GeoM.Translate(scoreX, scoreY)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, s, r.large, op)

	box := physics.RectFromMidBottom(scoreX, scoreY, w, h).Inflate(20, 10).Move(0, -8)
	strokeRect(screen, box, textColor)
}

func (r *renderer) drawHealth(screen *ebiten.Image, health int) {
	for i := 0; i < game.MaxHealth; i++ {
		col := pipEmptyColor
		if i < health {
			col = pipFullColor
		}
		vector.DrawFilledCircle(screen, float32(pipX+pipSpacing*i), pipY, pipRadius, col, true)
	}
}

func (r *renderer) drawPauseMenu(screen *ebiten.Image) {
	cx, cy := float64(game.ScreenWidth)/2, float64(game.ScreenHeight)/2
	title, hint := "PAUSED", "Press ESC to Resume"

	tw, th := text.Measure(title, r.large, 0)
	hw, hh := text.Measure(hint, r.small, 0)
	top := physics.RectFromCenter(cx, cy-40, tw, th)
	bottom := physics.RectFromCenter(cx, cy+20, hw, hh)
	left := min(top.Left(), bottom.Left())
	right := max(top.Right(), bottom.Right())
	box := physics.Rect{X: left, Y: top.Top(), W: right - left, H: bottom.Bottom() - top.Top()}.Inflate(40, 20)

	vector.DrawFilledRect(screen, float32(box.X), float32(box.Y), float32(box.W), float32(box.H), backgroundColor, false)
	strokeRect(screen, box, textColor)
	r.drawCentered(screen, title, r.large, cx, cy-40, textColor)
	r.drawCentered(screen, hint, r.small, cx, cy+20, textColor)
}

func (r *renderer) drawGameOver(screen *ebiten.Image, o *game.GameOver) {
	fade := color.NRGBA{
		R: backgroundColor.R,
		G: backgroundColor.G,
		B: backgroundColor.B,
		A: uint8(min(max(o.Alpha, 0), game.OverlayMaxAlpha)),
	}
	vector.DrawFilledRect(screen, 0, 0, game.ScreenWidth, game.ScreenHeight, fade, false)

	cx, cy := float64(game.ScreenWidth)/2, float64(game.ScreenHeight)/2
	r.drawCentered(screen, "GAME OVER", r.large, cx, cy-100, textColor)
	r.drawCentered(screen, fmt.Sprintf("Score: %d", o.Score), r.small, cx, cy-20, textColor)
	r.drawCentered(screen, fmt.Sprintf("High Score: %d", o.HighScore), r.small, cx, cy+20, textColor)
	r.drawCentered(screen, "Press R to Restart", r.small, cx, cy+160, hintColor)
}

func (r *renderer) drawCentered(screen *ebiten.Image, s string, face text.Face, x, y float64, col color.Color) {
	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, s, face, op)
}

func strokeRect(screen *ebiten.Image, rect physics.Rect, col color.Color) {
	vector.StrokeRect(screen, float32(rect.X), float32(rect.Y), float32(rect.W), float32(rect.H), boxLineWidth, col, true)
}

// imageCache converts sprite images to GPU images once.
type imageCache map[image.Image]*ebiten.Image

func (c imageCache) get(img image.Image) *ebiten.Image {
	if img == nil {
		return nil
	}
	if e, ok := c[img]; ok {
		return e
	}
	e := ebiten.NewImageFromImage(img)
	c[img] = e
	return e
}
