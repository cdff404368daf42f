package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/vector"
)

// generatedRate is the sample rate of generated sound files.
const generatedRate = beep.SampleRate(44100)

var (
	shipColor   = color.NRGBA{R: 120, G: 200, B: 255, A: 255}
	cockpit     = color.NRGBA{R: 40, G: 60, B: 110, A: 255}
	laserColor  = color.NRGBA{R: 255, G: 70, B: 70, A: 255}
	meteorColor = color.NRGBA{R: 150, G: 140, B: 130, A: 255}
	starColor   = color.NRGBA{R: 255, G: 255, B: 240, A: 255}
)

// GenerateOptions controls placeholder generation.
type GenerateOptions struct {
	// FontPath is where the placeholder TTF is written. Relative paths are
	// resolved against the asset directory.
	FontPath string
	// Overwrite replaces files that already exist.
	Overwrite bool
}

// Generate writes placeholder sprites, sounds and a font under dir. It
// returns the paths it wrote.
func Generate(dir string, opts GenerateOptions) ([]string, error) {
	g := &generator{dir: dir, overwrite: opts.Overwrite}

	g.png(filepath.Join(ImageDir, PlayerFile), playerImage())
	g.png(filepath.Join(ImageDir, LaserFile), laserImage())
	g.png(filepath.Join(ImageDir, MeteorFile), meteorImage())
	g.png(filepath.Join(ImageDir, StarFile), starImage())
	for i := 0; i < ExplosionFrames; i++ {
		g.png(filepath.Join(ExplosionDir, strconv.Itoa(i)+".png"), explosionImage(i))
	}

	g.wav(filepath.Join(AudioDir, LaserSound), laserSound())
	g.wav(filepath.Join(AudioDir, ExplodeSound), explosionSound())
	g.wav(filepath.Join(AudioDir, MusicSound), musicSound())

	fontPath := opts.FontPath
	if fontPath == "" {
		fontPath = DefaultFont
	}
	g.file(fontPath, func(f *os.File) error {
		_, err := f.Write(gobold.TTF)
		return err
	})

	return g.written, g.err
}

type generator struct {
	dir       string
	overwrite bool
	written   []string
	err       error
}

func (g *generator) png(rel string, img image.Image) {
	g.file(rel, func(f *os.File) error {
		return png.Encode(f, img)
	})
}

func (g *generator) wav(rel string, s beep.Streamer) {
	g.file(rel, func(f *os.File) error {
		return wav.Encode(f, s, beep.Format{
			SampleRate:  generatedRate,
			NumChannels: 2,
			Precision:   2,
		})
	})
}

func (g *generator) file(rel string, write func(*os.File) error) {
	if g.err != nil {
		return
	}
	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(g.dir, rel)
	}

	if !g.overwrite {
		if _, err := os.Stat(path); err == nil {
			return
		} else if !errors.Is(err, fs.ErrNotExist) {
			g.err = fmt.Errorf("stat %s: %w", path, err)
			return
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		g.err = fmt.Errorf("create asset dir: %w", err)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		g.err = fmt.Errorf("create %s: %w", path, err)
		return
	}
	if err := write(f); err != nil {
		f.Close()
		g.err = fmt.Errorf("write %s: %w", path, err)
		return
	}
	if err := f.Close(); err != nil {
		g.err = fmt.Errorf("close %s: %w", path, err)
		return
	}
	g.written = append(g.written, path)
}

// fillPolygon rasterises a closed polygon onto dst.
func fillPolygon(dst *image.NRGBA, pts [][2]float32, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		z.LineTo(p[0], p[1])
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// circle returns n points on an ellipse centred at (cx, cy). jitter scales
// each radius by a value in [1-jitter, 1].
func circle(cx, cy, rx, ry float64, n int, jitter float64, rng *rand.Rand) [][2]float32 {
	pts := make([][2]float32, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		k := 1.0
		if rng != nil {
			k -= jitter * rng.Float64()
		}
		pts[i] = [2]float32{
			float32(cx + math.Cos(a)*rx*k),
			float32(cy + math.Sin(a)*ry*k),
		}
	}
	return pts
}

func playerImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	fillPolygon(img, [][2]float32{{32, 0}, {62, 60}, {32, 48}, {2, 60}}, shipColor)
	fillPolygon(img, circle(32, 30, 6, 9, 16, 0, nil), cockpit)
	return img
}

func laserImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 9, 54))
	fillPolygon(img, [][2]float32{{4.5, 0}, {9, 6}, {9, 54}, {0, 54}, {0, 6}}, laserColor)
	return img
}

func meteorImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 84))
	rng := rand.New(rand.NewSource(7))
	fillPolygon(img, circle(50, 42, 49, 41, 14, 0.25, rng), meteorColor)
	return img
}

func starImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	fillPolygon(img, [][2]float32{
		{8, 0}, {10, 6}, {16, 8}, {10, 10}, {8, 16}, {6, 10}, {0, 8}, {6, 6},
	}, starColor)
	return img
}

// explosionImage draws frame i: an orange disc that grows and fades.
func explosionImage(i int) image.Image {
	size := 30 + 5*i
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	fade := 1 - float64(i)/float64(ExplosionFrames)

	outer := color.NRGBA{R: 255, G: 140, B: 0, A: uint8(255 * fade)}
	inner := color.NRGBA{R: 255, G: 230, B: 120, A: uint8(255 * fade)}
	fillPolygon(img, circle(r, r, r, r, 32, 0, nil), outer)
	fillPolygon(img, circle(r, r, r*0.5, r*0.5, 24, 0, nil), inner)
	return img
}

func laserSound() beep.Streamer {
	tone, err := generators.SineTone(generatedRate, 880)
	if err != nil {
		return beep.Silence(0)
	}
	return beep.Take(generatedRate.N(80*time.Millisecond), tone)
}

func explosionSound() beep.Streamer {
	rng := rand.New(rand.NewSource(11))
	n := generatedRate.N(300 * time.Millisecond)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		k := 0
		for k < len(samples) && pos < n {
			v := (rng.Float64()*2 - 1) * (1 - float64(pos)/float64(n))
			samples[k] = [2]float64{v, v}
			k++
			pos++
		}
		return k, true
	})
}

// musicSound is a slow four-note loop.
func musicSound() beep.Streamer {
	notes := []float64{220, 262, 330, 262}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, freq := range notes {
		tone, err := generators.SineTone(generatedRate, freq)
		if err != nil {
			continue
		}
		parts = append(parts, beep.Take(generatedRate.N(500*time.Millisecond), tone))
	}
	return beep.Seq(parts...)
}
