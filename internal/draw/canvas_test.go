package draw

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.RGBA{R: 0xff, A: 0xff}
)

func TestCanvasScaling(t *testing.T) {
	// 10 columns x 5 rows = 10 x 10 sub-pixels for a 100 x 100 logical area.
	c := NewScaledCanvas(10, 5, 100, 100)
	c.Fill(black)

	c.SetFloat(50, 50, white)
	assert.Equal(t, white, c.At(5, 5))

	col, row := c.LogicalToTerminal(50, 50)
	assert.Equal(t, 6, col)
	assert.Equal(t, 3, row)
}

func TestCanvasRenderDiff(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.Fill(black)

	var out bytes.Buffer
	c.Render(&out)
	assert.Equal(t, 8, strings.Count(out.String(), string(BlockUpperHalf)))

	// Nothing changed: nothing emitted.
	out.Reset()
	c.Fill(black)
	c.Render(&out)
	assert.Empty(t, out.String())

	// One sub-pixel changed: one cell emitted.
	out.Reset()
	c.SetFloat(1, 3, red)
	c.Render(&out)
	assert.Equal(t, 1, strings.Count(out.String(), string(BlockUpperHalf)))
	assert.Contains(t, out.String(), "\033[2;2H")
	assert.Contains(t, out.String(), "\033[48;2;255;0;0m")

	// ForceRedraw repaints everything.
	out.Reset()
	c.ForceRedraw()
	c.Render(&out)
	assert.Equal(t, 8, strings.Count(out.String(), string(BlockUpperHalf)))
}

func TestCanvasMarkTextDirty(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.Fill(black)
	var out bytes.Buffer
	c.Render(&out)

	out.Reset()
	c.MarkTextDirty(2, 1, 2)
	c.Render(&out)
	assert.Equal(t, 2, strings.Count(out.String(), string(BlockUpperHalf)))
	assert.Contains(t, out.String(), "\033[1;2H")
}

func TestCanvasOffsetApplied(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)
	c.SetOffset(3, 4)
	c.Fill(black)

	var out bytes.Buffer
	c.Render(&out)
	assert.Contains(t, out.String(), "\033[5;4H")
}

func TestCanvasDrawImageBlendsAlpha(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.Fill(black)

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 128})

	c.DrawImage(img, 2, 2) // covers logical (1..3, 1..3)

	assert.Equal(t, red, c.At(1, 1))
	got := c.At(2, 1)
	assert.InDelta(t, 128, int(got.G), 1)
	assert.Equal(t, black, c.At(1, 2), "transparent pixel leaves background")
	assert.Equal(t, black, c.At(0, 0))
}

func TestCanvasFillRectAndPolygon(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.Fill(black)

	c.FillRect(2, 2, 4, 4, white, 0xff)
	assert.Equal(t, white, c.At(2, 2))
	assert.Equal(t, white, c.At(3, 3))
	assert.Equal(t, black, c.At(4, 4))

	c.DrawPolygon([]Point{{6, 6}, {9, 6}, {9, 9}, {6, 9}}, true, red)
	assert.Equal(t, red, c.At(7, 7))

	c.FillRect(0, 0, 10, 10, white, 0)
	assert.Equal(t, black, c.At(0, 0), "zero alpha is a no-op")
}

func TestCanvasResizeInvalidates(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.Fill(black)
	var out bytes.Buffer
	c.Render(&out)

	c.Resize(8, 4)
	assert.Equal(t, 8, c.TerminalWidth())
	c.Fill(black)
	out.Reset()
	c.Render(&out)
	assert.Equal(t, 32, strings.Count(out.String(), string(BlockUpperHalf)))
}

func TestChunkWriterFlush(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 1)

	cw.WriteAt(1, 1, "hi")
	cw.WriteString(strings.Repeat("x", 3*maxChunkSize))
	require.NoError(t, cw.Flush())

	assert.True(t, strings.HasPrefix(out.String(), "\033[2;3Hhi"))
	assert.Len(t, out.String(), len("\033[2;3Hhi")+3*maxChunkSize)
	assert.Zero(t, cw.Pending())
}
