package game

// GameOver is the end-of-session overlay. It fades in one step per frame.
type GameOver struct {
	Score     int
	HighScore int
	Alpha     int
}

// Update advances the fade by one frame.
func (g *GameOver) Update() {
	g.Alpha = min(g.Alpha+OverlayFadeStep, OverlayMaxAlpha)
}
