package audio

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// SampleRate is the speaker sample rate; clips with other rates are resampled.
const SampleRate = beep.SampleRate(44100)

// speakerBuffer is the speaker latency budget.
const speakerBuffer = 100 * time.Millisecond

// Volumes holds linear per-cue volumes in [0, 1].
type Volumes struct {
	Laser     float64
	Explosion float64
	Music     float64
}

// Files names the WAV files backing each cue.
type Files struct {
	Laser     string
	Explosion string
	Music     string
}

// BeepPlayer plays cues through the system speaker using beep.
type BeepPlayer struct {
	mu        sync.Mutex
	mixer     *beep.Mixer
	laser     *beep.Buffer
	explosion *beep.Buffer
	music     *beep.Buffer
	volumes   Volumes
	musicCtrl *beep.Ctrl
}

// NewBeepPlayer decodes the cue files and opens the speaker.
func NewBeepPlayer(files Files, volumes Volumes) (*BeepPlayer, error) {
	laser, err := LoadClip(files.Laser)
	if err != nil {
		return nil, err
	}
	explosion, err := LoadClip(files.Explosion)
	if err != nil {
		return nil, err
	}
	music, err := LoadClip(files.Music)
	if err != nil {
		return nil, err
	}

	if err := speaker.Init(SampleRate, SampleRate.N(speakerBuffer)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	p := &BeepPlayer{
		mixer:     &beep.Mixer{},
		laser:     laser,
		explosion: explosion,
		music:     music,
		volumes:   volumes,
	}
	speaker.Play(p.mixer)
	return p, nil
}

// LoadClip decodes a WAV file into an in-memory buffer at SampleRate.
func LoadClip(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open clip: %w", err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode clip %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != SampleRate {
		s = beep.Resample(4, format.SampleRate, SampleRate, streamer)
	}

	buf := beep.NewBuffer(beep.Format{
		SampleRate:  SampleRate,
		NumChannels: 2,
		Precision:   2,
	})
	buf.Append(s)
	return buf, nil
}

// withVolume wraps s in a volume effect matching a linear gain.
func withVolume(s beep.Streamer, linear float64) beep.Streamer {
	if linear <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(linear)}
}

// Play starts a one-shot cue. Empty clips are skipped.
func (p *BeepPlayer) Play(cue Cue) {
	var buf *beep.Buffer
	var vol float64
	switch cue {
	case CueLaser:
		buf, vol = p.laser, p.volumes.Laser
	case CueExplosion:
		buf, vol = p.explosion, p.volumes.Explosion
	default:
		return
	}
	if buf == nil || buf.Len() == 0 {
		return
	}

	speaker.Lock()
	p.mixer.Add(withVolume(buf.Streamer(0, buf.Len()), vol))
	speaker.Unlock()
}

// StartMusic restarts the background track from the beginning, looping forever.
func (p *BeepPlayer) StartMusic() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopMusicLocked()
	if p.music == nil || p.music.Len() == 0 {
		return
	}

	loop := beep.Loop(-1, p.music.Streamer(0, p.music.Len()))
	ctrl := &beep.Ctrl{Streamer: withVolume(loop, p.volumes.Music)}
	p.musicCtrl = ctrl

	speaker.Lock()
	p.mixer.Add(ctrl)
	speaker.Unlock()
}

// StopMusic stops the background track.
func (p *BeepPlayer) StopMusic() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopMusicLocked()
}

// stopMusicLocked drains the music control so the mixer drops it.
func (p *BeepPlayer) stopMusicLocked() {
	if p.musicCtrl == nil {
		return
	}
	speaker.Lock()
	p.musicCtrl.Streamer = nil
	speaker.Unlock()
	p.musicCtrl = nil
}

// Close stops all sounds and closes the speaker.
func (p *BeepPlayer) Close() error {
	p.StopMusic()
	speaker.Clear()
	speaker.Close()
	return nil
}

var _ Player = (*BeepPlayer)(nil)
