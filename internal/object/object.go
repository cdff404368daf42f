// Package object holds the game's entities. Every entity is one tagged value
// stored in an Arena; behaviour is selected by switching on its Kind.
package object

import (
	"image"
	"time"

	"github.com/tomz197/spaceshooter/internal/assets"
	"github.com/tomz197/spaceshooter/internal/audio"
	"github.com/tomz197/spaceshooter/internal/input"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// Kind discriminates entity variants.
type Kind int

const (
	KindStar Kind = iota
	KindMeteor
	KindLaser
	KindPlayer
	KindExplosion

	kindCount
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindMeteor:
		return "meteor"
	case KindLaser:
		return "laser"
	case KindPlayer:
		return "player"
	case KindExplosion:
		return "explosion"
	default:
		return "unknown"
	}
}

// Layer returns the draw order of a kind; lower layers are drawn first.
func Layer(k Kind) int {
	return int(k)
}

// Screen is the playfield size in pixels.
type Screen struct {
	Width  int
	Height int
}

// Center returns the middle of the playfield.
func (s Screen) Center() (float64, float64) {
	return float64(s.Width) / 2, float64(s.Height) / 2
}

// Spawner allows entities to spawn new entities during update.
type Spawner interface {
	Spawn(e Entity)
}

// UpdateContext provides all the information an entity needs during update.
type UpdateContext struct {
	Now     time.Duration
	Delta   time.Duration
	Input   input.Input
	Screen  Screen
	Spawner Spawner
	Sounds  audio.Player
	Sprites *assets.Sprites
}

// PlayerState is the player-only part of an entity.
type PlayerState struct {
	Health     int
	Invincible bool
	HitAt      time.Duration
	CanShoot   bool
	ShotAt     time.Duration
}

// MeteorState is the meteor-only part of an entity.
type MeteorState struct {
	Angle         float64 // degrees, counter-clockwise
	RotationSpeed float64 // degrees per second
}

// ExplosionState is the explosion-only part of an entity.
type ExplosionState struct {
	Frames []image.Image
	Index  float64
}

// Entity is a single game object. Fields that do not apply to Kind stay zero.
type Entity struct {
	Kind Kind
	// Seq is the spawn order, assigned by the Arena.
	Seq uint64

	X, Y       float64 // centre
	DirX, DirY float64
	Speed      float64

	// Source is the pristine sprite; Image is what is displayed this frame.
	Source image.Image
	Image  image.Image
	Mask   *physics.Mask

	SpawnedAt time.Duration
	// Lifetime is recorded for meteors but never enforced.
	Lifetime time.Duration

	Player    PlayerState
	Meteor    MeteorState
	Explosion ExplosionState
}

// Rect returns the entity's bounding box centred on its position.
func (e *Entity) Rect() physics.Rect {
	if e.Image == nil {
		return physics.RectFromCenter(e.X, e.Y, 0, 0)
	}
	b := e.Image.Bounds()
	return physics.RectFromCenter(e.X, e.Y, float64(b.Dx()), float64(b.Dy()))
}

// Update advances e by one frame. It returns true when the entity removed
// itself.
func Update(e *Entity, ctx *UpdateContext) (remove bool) {
	switch e.Kind {
	case KindPlayer:
		updatePlayer(e, ctx)
	case KindLaser:
		return updateLaser(e, ctx)
	case KindMeteor:
		return updateMeteor(e, ctx)
	case KindExplosion:
		return updateExplosion(e, ctx)
	case KindStar:
	}
	return false
}
