package desktop

import (
	"bytes"
	"fmt"
	"io"
	"os"

	eaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/tomz197/spaceshooter/internal/audio"
)

// sampleRate of the Ebiten audio context. Clips are resampled to it.
const sampleRate = 44100

// Sound plays cues through Ebiten's audio context.
type Sound struct {
	ctx       *eaudio.Context
	laser     []byte
	explosion []byte
	music     *eaudio.Player // nil when the music clip is empty
	volumes   audio.Volumes
}

var _ audio.Player = (*Sound)(nil)

// NewSound decodes the three WAV files. Only one Sound may exist per
// process because Ebiten allows a single audio context.
func NewSound(files audio.Files, volumes audio.Volumes) (*Sound, error) {
	laser, err := decodeWAV(files.Laser)
	if err != nil {
		return nil, err
	}
	explosion, err := decodeWAV(files.Explosion)
	if err != nil {
		return nil, err
	}
	music, err := decodeWAV(files.Music)
	if err != nil {
		return nil, err
	}

	s := &Sound{
		ctx:       eaudio.NewContext(sampleRate),
		laser:     laser,
		explosion: explosion,
		volumes:   volumes,
	}
	if len(music) > 0 {
		loop := eaudio.NewInfiniteLoop(bytes.NewReader(music), int64(len(music)))
		p, err := s.ctx.NewPlayer(loop)
		if err != nil {
			return nil, fmt.Errorf("music player: %w", err)
		}
		p.SetVolume(volumes.Music)
		s.music = p
	}
	return s, nil
}

// decodeWAV returns the clip as 16-bit stereo PCM at sampleRate.
func decodeWAV(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sound: %w", err)
	}
	defer f.Close()

	stream, err := wav.DecodeWithSampleRate(sampleRate, f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return pcm, nil
}

// Play starts a fresh player for the cue so overlapping cues mix.
func (s *Sound) Play(cue audio.Cue) {
	var (
		pcm    []byte
		volume float64
	)
	switch cue {
	case audio.CueLaser:
		pcm, volume = s.laser, s.volumes.Laser
	case audio.CueExplosion:
		pcm, volume = s.explosion, s.volumes.Explosion
	}
	if len(pcm) == 0 {
		return
	}
	p := s.ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(volume)
	p.Play()
}

// StartMusic plays the music loop from the start.
func (s *Sound) StartMusic() {
	if s.music == nil || s.music.IsPlaying() {
		return
	}
	_ = s.music.Rewind()
	s.music.Play()
}

// StopMusic pauses the music loop.
func (s *Sound) StopMusic() {
	if s.music != nil {
		s.music.Pause()
	}
}

// Close releases the music player.
func (s *Sound) Close() error {
	if s.music == nil {
		return nil
	}
	return s.music.Close()
}
