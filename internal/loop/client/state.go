package client

import (
	"time"

	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/input"
)

// ClientState holds per-connection state that is not part of the game.
type ClientState struct {
	Input         input.Input
	Running       bool          // Client loop running
	ShuttingDown  bool          // Server asked everyone to leave
	prevMode      game.Mode     // Mode drawn last frame
	prevShutdown  bool          // ShuttingDown as of last frame
	delta         time.Duration // Frame delta time
	shutdownTimer time.Duration // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the inactivity warning is showing
	wasInactive   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running: true,
	}
}

// anyInput reports whether the frame carried any key press.
func anyInput(in input.Input) bool {
	return in != input.Input{}
}
