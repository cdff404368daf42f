package object

import (
	"image"
	"time"

	"github.com/tomz197/spaceshooter/internal/physics"
)

// LaserSpeed is in pixels per second, straight up.
const LaserSpeed = 400.0

// NewLaser creates a laser whose bottom edge is centred on (x, y).
func NewLaser(img image.Image, x, y float64, now time.Duration) Entity {
	b := img.Bounds()
	cx, cy := physics.RectFromMidBottom(x, y, float64(b.Dx()), float64(b.Dy())).Center()
	return Entity{
		Kind:      KindLaser,
		X:         cx,
		Y:         cy,
		DirY:      -1,
		Speed:     LaserSpeed,
		Source:    img,
		Image:     img,
		SpawnedAt: now,
	}
}

// updateLaser moves the laser up and drops it once it is fully above the top.
func updateLaser(e *Entity, ctx *UpdateContext) bool {
	e.Y -= e.Speed * ctx.Delta.Seconds()
	return e.Rect().Bottom() < 0
}
