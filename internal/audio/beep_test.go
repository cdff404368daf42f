package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, s beep.Streamer, rate beep.SampleRate) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, s, format))
	return path
}

func TestLoadClipEmpty(t *testing.T) {
	path := writeWAV(t, beep.Silence(0), SampleRate)

	buf, err := LoadClip(path)
	require.NoError(t, err)
	assert.Equal(t, 0, buf.Len())
}

func TestLoadClipResamples(t *testing.T) {
	tone, err := generators.SineTone(22050, 440)
	require.NoError(t, err)
	path := writeWAV(t, beep.Take(22050/10, tone), 22050)

	buf, err := LoadClip(path)
	require.NoError(t, err)
	assert.Equal(t, SampleRate, buf.Format().SampleRate)
	assert.InDelta(t, int(SampleRate)/10, buf.Len(), 10)
}

func TestLoadClipErrors(t *testing.T) {
	_, err := LoadClip(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(bad, []byte("not a wav"), 0o644))
	_, err = LoadClip(bad)
	assert.Error(t, err)
}

func TestWithVolume(t *testing.T) {
	v, ok := withVolume(beep.Silence(1), 0.1).(*effects.Volume)
	require.True(t, ok)
	assert.False(t, v.Silent)
	assert.InDelta(t, math.Log2(0.1), v.Volume, 1e-9)
	assert.Equal(t, 2.0, v.Base)

	muted, ok := withVolume(beep.Silence(1), 0).(*effects.Volume)
	require.True(t, ok)
	assert.True(t, muted.Silent)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Play(CueLaser)
	r.Play(CueExplosion)
	r.Play(CueExplosion)
	r.StartMusic()
	r.StopMusic()
	r.StopMusic()

	assert.Equal(t, 1, r.Count(CueLaser))
	assert.Equal(t, 2, r.Count(CueExplosion))
	assert.False(t, r.MusicPlaying)
	assert.Equal(t, 1, r.MusicStarts)
	assert.Equal(t, 2, r.MusicStops)
	assert.Equal(t, "laser", CueLaser.String())
	assert.Equal(t, "explosion", CueExplosion.String())
}
