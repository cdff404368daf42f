package object

import (
	"image"
	"math/rand"
	"time"
)

// NewStar creates a static background star at a random position.
func NewStar(img image.Image, rng *rand.Rand, screen Screen, now time.Duration) Entity {
	return Entity{
		Kind:      KindStar,
		X:         float64(randInt(rng, 0, screen.Width)),
		Y:         float64(randInt(rng, 0, screen.Height)),
		Source:    img,
		Image:     img,
		SpawnedAt: now,
	}
}
