// Package assets loads the game's sprites and sound files from an asset
// directory and can generate placeholder versions of them.
package assets

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tomz197/spaceshooter/internal/audio"
)

// ExplosionFrames is the number of explosion animation frames.
const ExplosionFrames = 21

// Asset file layout relative to the asset directory.
const (
	ImageDir     = "images"
	ExplosionDir = "images/explosion"
	AudioDir     = "audio"

	PlayerFile    = "player.png"
	LaserFile     = "laser.png"
	MeteorFile    = "meteor.png"
	StarFile      = "star.png"
	LaserSound    = "laser.wav"
	ExplodeSound  = "explosion.wav"
	MusicSound    = "game_music.wav"
	DefaultFont   = "images/font.ttf"
)

// Sprites holds every image the game draws.
type Sprites struct {
	Player    image.Image
	Laser     image.Image
	Meteor    image.Image
	Star      image.Image
	Explosion []image.Image
}

// Load reads all sprites from dir. Any missing or undecodable file is an error.
func Load(dir string) (*Sprites, error) {
	s := &Sprites{}
	var err error

	if s.Player, err = loadImage(filepath.Join(dir, ImageDir, PlayerFile)); err != nil {
		return nil, err
	}
	if s.Laser, err = loadImage(filepath.Join(dir, ImageDir, LaserFile)); err != nil {
		return nil, err
	}
	if s.Meteor, err = loadImage(filepath.Join(dir, ImageDir, MeteorFile)); err != nil {
		return nil, err
	}
	if s.Star, err = loadImage(filepath.Join(dir, ImageDir, StarFile)); err != nil {
		return nil, err
	}

	s.Explosion = make([]image.Image, ExplosionFrames)
	for i := 0; i < ExplosionFrames; i++ {
		path := filepath.Join(dir, ExplosionDir, strconv.Itoa(i)+".png")
		if s.Explosion[i], err = loadImage(path); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// SoundFiles returns the paths of the three sound files under dir.
func SoundFiles(dir string) audio.Files {
	return audio.Files{
		Laser:     filepath.Join(dir, AudioDir, LaserSound),
		Explosion: filepath.Join(dir, AudioDir, ExplodeSound),
		Music:     filepath.Join(dir, AudioDir, MusicSound),
	}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load sprite: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode sprite %s: %w", path, err)
	}
	return img, nil
}
