package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/spaceshooter/internal/audio"
)

func TestGenerateThenLoad(t *testing.T) {
	dir := t.TempDir()

	written, err := Generate(dir, GenerateOptions{})
	require.NoError(t, err)
	// 4 sprites, 21 explosion frames, 3 sounds, 1 font.
	assert.Len(t, written, 4+ExplosionFrames+3+1)

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 64, s.Player.Bounds().Dx())
	assert.Equal(t, 54, s.Laser.Bounds().Dy())
	require.Len(t, s.Explosion, ExplosionFrames)
	for i, frame := range s.Explosion {
		assert.Equal(t, 30+5*i, frame.Bounds().Dx(), "frame %d", i)
	}

	_, err = os.Stat(filepath.Join(dir, DefaultFont))
	assert.NoError(t, err)
}

func TestGeneratedSoundsDecode(t *testing.T) {
	dir := t.TempDir()
	_, err := Generate(dir, GenerateOptions{})
	require.NoError(t, err)

	files := SoundFiles(dir)
	for _, path := range []string{files.Laser, files.Explosion, files.Music} {
		buf, err := audio.LoadClip(path)
		require.NoError(t, err, path)
		assert.Positive(t, buf.Len(), path)
	}
}

func TestGenerateKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	star := filepath.Join(dir, ImageDir, StarFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(star), 0o755))
	require.NoError(t, os.WriteFile(star, []byte("custom"), 0o644))

	written, err := Generate(dir, GenerateOptions{})
	require.NoError(t, err)
	assert.NotContains(t, written, star)

	data, err := os.ReadFile(star)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(data))

	written, err = Generate(dir, GenerateOptions{Overwrite: true})
	require.NoError(t, err)
	assert.Contains(t, written, star)
}

func TestGenerateAbsoluteFontPath(t *testing.T) {
	dir := t.TempDir()
	font := filepath.Join(t.TempDir(), "custom.ttf")

	_, err := Generate(dir, GenerateOptions{FontPath: font})
	require.NoError(t, err)

	_, err = os.Stat(font)
	assert.NoError(t, err)
}

func TestLoadMissingSprite(t *testing.T) {
	dir := t.TempDir()
	_, err := Generate(dir, GenerateOptions{})
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, ExplosionDir, "20.png")))

	_, err = Load(dir)
	assert.Error(t, err)
}

func TestLoadCorruptSprite(t *testing.T) {
	dir := t.TempDir()
	_, err := Generate(dir, GenerateOptions{})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ImageDir, PlayerFile), []byte("nope"), 0o644))

	_, err = Load(dir)
	assert.Error(t, err)
}
