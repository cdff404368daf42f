package object

import (
	"image"
	"time"
)

// ExplosionFPS is the explosion animation speed in frames per second.
const ExplosionFPS = 20.0

// NewExplosion creates an explosion centred on (x, y) showing its first frame.
func NewExplosion(frames []image.Image, x, y float64, now time.Duration) Entity {
	var first image.Image
	if len(frames) > 0 {
		first = frames[0]
	}
	return Entity{
		Kind:      KindExplosion,
		X:         x,
		Y:         y,
		Image:     first,
		SpawnedAt: now,
		Explosion: ExplosionState{Frames: frames},
	}
}

// updateExplosion advances the animation and removes the entity once it
// runs past the last frame.
func updateExplosion(e *Entity, ctx *UpdateContext) bool {
	x := &e.Explosion
	x.Index += ExplosionFPS * ctx.Delta.Seconds()
	if x.Index >= float64(len(x.Frames)) {
		return true
	}
	e.Image = x.Frames[int(x.Index)]
	return false
}
