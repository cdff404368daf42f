// Package audio plays the game's sound cues.
package audio

// Cue identifies a one-shot sound effect.
type Cue int

const (
	CueLaser Cue = iota
	CueExplosion
)

// String returns the cue name.
func (c Cue) String() string {
	switch c {
	case CueLaser:
		return "laser"
	case CueExplosion:
		return "explosion"
	default:
		return "unknown"
	}
}

// Player is a fire-and-forget sound sink. Implementations must not block
// the frame loop.
type Player interface {
	// Play starts a one-shot cue.
	Play(cue Cue)
	// StartMusic (re)starts the background track from the beginning, looping.
	StartMusic()
	// StopMusic stops the background track. Stopping a stopped track is a no-op.
	StopMusic()
	// Close releases audio resources.
	Close() error
}

// Nop is a Player that discards everything.
type Nop struct{}

// Play does nothing.
func (Nop) Play(Cue) {}

// StartMusic does nothing.
func (Nop) StartMusic() {}

// StopMusic does nothing.
func (Nop) StopMusic() {}

// Close does nothing.
func (Nop) Close() error { return nil }

var _ Player = Nop{}

// Recorder is a Player that records calls. Useful in tests.
type Recorder struct {
	Cues         []Cue
	MusicPlaying bool
	MusicStarts  int
	MusicStops   int
}

// Play records the cue.
func (r *Recorder) Play(c Cue) {
	r.Cues = append(r.Cues, c)
}

// StartMusic records a music start.
func (r *Recorder) StartMusic() {
	r.MusicPlaying = true
	r.MusicStarts++
}

// StopMusic records a music stop.
func (r *Recorder) StopMusic() {
	r.MusicPlaying = false
	r.MusicStops++
}

// Close does nothing.
func (r *Recorder) Close() error { return nil }

// Count returns how many times the cue was played.
func (r *Recorder) Count(c Cue) int {
	n := 0
	for _, got := range r.Cues {
		if got == c {
			n++
		}
	}
	return n
}

var _ Player = (*Recorder)(nil)
