package object

import (
	"image"
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/spaceshooter/internal/physics"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

const (
	// MeteorLifetime is stored on every meteor and never checked.
	MeteorLifetime = 3000 * time.Millisecond

	meteorMinSpeed    = 200
	meteorMaxSpeed    = 300
	meteorMinRotation = 20
	meteorMaxRotation = 40
	meteorMinY        = -200
	meteorMaxY        = -100
)

// NewMeteor creates a meteor above the top edge with a random drift, speed
// and spin drawn from rng.
func NewMeteor(img image.Image, rng *rand.Rand, screen Screen, now time.Duration) Entity {
	return Entity{
		Kind:      KindMeteor,
		X:         float64(randInt(rng, 0, screen.Width)),
		Y:         float64(randInt(rng, meteorMinY, meteorMaxY)),
		DirX:      rng.Float64() - 0.5,
		DirY:      1,
		Speed:     float64(randInt(rng, meteorMinSpeed, meteorMaxSpeed)),
		Source:    img,
		Image:     img,
		Mask:      physics.MaskFromImage(img),
		SpawnedAt: now,
		Lifetime:  MeteorLifetime,
		Meteor: MeteorState{
			RotationSpeed: float64(randInt(rng, meteorMinRotation, meteorMaxRotation)),
		},
	}
}

// randInt returns a uniform integer in [lo, hi].
func randInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

// updateMeteor moves the meteor, drops it once its top is below the screen
// and otherwise re-renders its rotation from the pristine sprite.
func updateMeteor(e *Entity, ctx *UpdateContext) bool {
	dt := ctx.Delta.Seconds()
	e.X += e.DirX * e.Speed * dt
	e.Y += e.DirY * e.Speed * dt
	if e.Rect().Top() > float64(ctx.Screen.Height) {
		return true
	}

	e.Meteor.Angle += e.Meteor.RotationSpeed * dt
	e.Image = Rotate(e.Source, e.Meteor.Angle)
	e.Mask = physics.MaskFromImage(e.Image)
	return false
}

// Rotate returns src turned counter-clockwise by deg degrees on a canvas
// just large enough to hold it. The result is centred on src's centre.
func Rotate(src image.Image, deg float64) *image.RGBA {
	sb := src.Bounds()
	w, h := float64(sb.Dx()), float64(sb.Dy())
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)

	nw := ceil(math.Abs(w*cos) + math.Abs(h*sin))
	nh := ceil(math.Abs(w*sin) + math.Abs(h*cos))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))

	scx := float64(sb.Min.X) + w/2
	scy := float64(sb.Min.Y) + h/2
	dcx, dcy := float64(nw)/2, float64(nh)/2

	// Screen y grows downward, so a counter-clockwise turn maps
	// (dx, dy) to (dx cos + dy sin, -dx sin + dy cos).
	m := f64.Aff3{
		cos, sin, dcx - cos*scx - sin*scy,
		-sin, cos, dcy + sin*scx - cos*scy,
	}
	xdraw.BiLinear.Transform(dst, m, src, sb, xdraw.Over, nil)
	return dst
}

// ceil rounds up, ignoring float noise from sin and cos at right angles.
func ceil(v float64) int {
	return int(math.Ceil(v - 1e-9))
}
