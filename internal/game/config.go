package game

import "time"

// Playfield
const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

// Player
const (
	MaxHealth = 3
)

// Spawning
const (
	StarCount      = 20
	MeteorInterval = 500 * time.Millisecond
)

// Scoring: one point per ScoreUnit of session time.
const (
	ScoreUnit = 100 * time.Millisecond
)

// Overlay
const (
	OverlayFadeStep = 2
	OverlayMaxAlpha = 255
)
