package client

import (
	"image/color"
	"time"
)

// Client rendering
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Render area limits in terminal cells.
const (
	MaxTermWidth  = 320
	MaxTermHeight = 90
	MinTermWidth  = 32
	MinTermHeight = 9
)

// ShutdownDisplay is how long the shutdown notice stays up before the
// client disconnects on its own.
const ShutdownDisplay = 10 * time.Second

// Colours
var (
	backgroundColor = color.RGBA{R: 0x3a, G: 0x2e, B: 0x3f, A: 0xff}
	textColor       = color.RGBA{R: 240, G: 240, B: 240, A: 0xff}
	pipFullColor    = color.RGBA{R: 240, G: 240, B: 240, A: 0xff}
	pipEmptyColor   = color.RGBA{R: 100, G: 100, B: 100, A: 0xff}
	hintColor       = color.RGBA{R: 200, G: 200, B: 200, A: 0xff}
)
