package object

import (
	"image"
	"math"
	"time"

	"github.com/tomz197/spaceshooter/internal/audio"
	"github.com/tomz197/spaceshooter/internal/physics"
)

const (
	// PlayerSpeed is in pixels per second.
	PlayerSpeed = 300.0
	// ShootCooldown is the minimum time between two lasers.
	ShootCooldown = 200 * time.Millisecond
	// InvincibilityDuration is how long the player is immune after a hit.
	InvincibilityDuration = 1000 * time.Millisecond
)

// NewPlayer creates the player at (x, y) with full health.
func NewPlayer(img image.Image, x, y float64, health int, now time.Duration) Entity {
	return Entity{
		Kind:      KindPlayer,
		X:         x,
		Y:         y,
		Speed:     PlayerSpeed,
		Source:    img,
		Image:     img,
		Mask:      physics.MaskFromImage(img),
		SpawnedAt: now,
		Player: PlayerState{
			Health:   health,
			CanShoot: true,
		},
	}
}

// Hit applies one point of damage and starts invincibility. It returns the
// remaining health.
func (e *Entity) Hit(now time.Duration) int {
	e.Player.Health--
	e.Player.Invincible = true
	e.Player.HitAt = now
	return e.Player.Health
}

// updatePlayer moves, fires and runs the cooldown and invincibility timers,
// in that order.
func updatePlayer(e *Entity, ctx *UpdateContext) {
	in := ctx.Input
	dx, dy := 0.0, 0.0
	if in.Right {
		dx++
	}
	if in.Left {
		dx--
	}
	if in.Down {
		dy++
	}
	if in.Up {
		dy--
	}
	if l := math.Hypot(dx, dy); l > 0 {
		dx, dy = dx/l, dy/l
	}
	e.DirX, e.DirY = dx, dy

	dt := ctx.Delta.Seconds()
	e.X = clamp(e.X+dx*e.Speed*dt, 0, float64(ctx.Screen.Width))
	e.Y = clamp(e.Y+dy*e.Speed*dt, 0, float64(ctx.Screen.Height))

	p := &e.Player
	if in.Fire && p.CanShoot {
		x, y := e.Rect().MidTop()
		if ctx.Spawner != nil && ctx.Sprites != nil {
			ctx.Spawner.Spawn(NewLaser(ctx.Sprites.Laser, x, y, ctx.Now))
		}
		p.CanShoot = false
		p.ShotAt = ctx.Now
		if ctx.Sounds != nil {
			ctx.Sounds.Play(audio.CueLaser)
		}
	}

	if !p.CanShoot && ctx.Now-p.ShotAt >= ShootCooldown {
		p.CanShoot = true
	}
	if p.Invincible && ctx.Now-p.HitAt >= InvincibilityDuration {
		p.Invincible = false
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
