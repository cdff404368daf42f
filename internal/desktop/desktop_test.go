package desktop

import (
	"path/filepath"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/spaceshooter/internal/assets"
	"github.com/tomz197/spaceshooter/internal/game"
	"github.com/tomz197/spaceshooter/internal/input"
)

func keys(ks ...ebiten.Key) func(ebiten.Key) bool {
	set := map[ebiten.Key]bool{}
	for _, k := range ks {
		set[k] = true
	}
	return func(k ebiten.Key) bool { return set[k] }
}

func TestReadInput(t *testing.T) {
	tests := []struct {
		name        string
		pressed     []ebiten.Key
		justPressed []ebiten.Key
		want        input.Input
	}{
		{"nothing", nil, nil, input.Input{}},
		{"diagonal", []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyArrowLeft}, nil, input.Input{Up: true, Left: true}},
		{"held space does not fire", []ebiten.Key{ebiten.KeySpace}, nil, input.Input{}},
		{"fresh space fires", []ebiten.Key{ebiten.KeySpace}, []ebiten.Key{ebiten.KeySpace}, input.Input{Fire: true}},
		{"escape pauses", nil, []ebiten.Key{ebiten.KeyEscape}, input.Input{Pause: true}},
		{"r restarts", nil, []ebiten.Key{ebiten.KeyR}, input.Input{Restart: true}},
		{"wasd is not mapped", []ebiten.Key{ebiten.KeyW, ebiten.KeyA}, nil, input.Input{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readInput(keys(tt.pressed...), keys(tt.justPressed...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLayoutIsFixed(t *testing.T) {
	g := &Game{}
	w, h := g.Layout(1920, 1080)
	assert.Equal(t, game.ScreenWidth, w)
	assert.Equal(t, game.ScreenHeight, h)
}

func TestDecodeWAV(t *testing.T) {
	dir := t.TempDir()
	_, err := assets.Generate(dir, assets.GenerateOptions{})
	require.NoError(t, err)

	files := assets.SoundFiles(dir)
	for _, path := range []string{files.Laser, files.Explosion, files.Music} {
		pcm, err := decodeWAV(path)
		require.NoError(t, err, path)
		assert.NotEmpty(t, pcm, path)
		// 16-bit stereo frames.
		assert.Zero(t, len(pcm)%4, path)
	}

	_, err = decodeWAV(filepath.Join(dir, "missing.wav"))
	assert.Error(t, err)
}

func TestNewRendererMissingFont(t *testing.T) {
	_, err := newRenderer(filepath.Join(t.TempDir(), "none.ttf"))
	assert.Error(t, err)
}
