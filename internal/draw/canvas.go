package draw

import (
	"image"
	"image/color"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// cell is what one terminal character shows: two stacked sub-pixels.
type cell struct {
	top, bottom color.RGBA
}

// Canvas is a colour drawing buffer with 2x vertical resolution using
// half-block characters. Drawing happens in logical coordinates that are
// scaled to terminal sub-pixels. Render only emits cells that changed since
// the previous frame.
type Canvas struct {
	termWidth      int          // Actual terminal columns
	termHeight     int          // Actual terminal rows
	subPixelHeight int          // termHeight * 2
	pixels         []color.RGBA // Flat slice: [y * termWidth + x]
	prev           []cell       // What the terminal shows, per cell
	prevValid      []bool       // false forces the cell to be re-emitted
	background     color.RGBA

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets of the render area.
	offsetCol int
	offsetRow int

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
// Any size change invalidates the previous frame.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]color.RGBA, c.subPixelHeight*termWidth)
		c.prev = make([]cell, termWidth*termHeight)
		c.prevValid = make([]bool, termWidth*termHeight)
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render emit every cell.
func (c *Canvas) ForceRedraw() {
	clear(c.prevValid)
}

// MarkTextDirty marks n cells starting at the 1-based (col, row) as
// overwritten by text, so the next Render repaints them.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := max(col-1, 0); x < min(col-1+n, c.termWidth); x++ {
		c.prevValid[r*c.termWidth+x] = false
	}
}

// Fill clears the canvas to a solid background colour.
func (c *Canvas) Fill(bg color.Color) {
	c.background = toRGBA(bg)
	for i := range c.pixels {
		c.pixels[i] = c.background
	}
}

// Background returns the last fill colour.
func (c *Canvas) Background() color.RGBA {
	return c.background
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col color.RGBA) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// blendPixel composites col over the pixel with the given opacity (0-255).
func (c *Canvas) blendPixel(x, y int, col color.RGBA, alpha uint8) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return
	}
	i := y*c.termWidth + x
	c.pixels[i] = blend(c.pixels[i], col, alpha)
}

// At returns the pixel at terminal sub-pixel coordinates.
func (c *Canvas) At(x, y int) color.RGBA {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return color.RGBA{}
	}
	return c.pixels[y*c.termWidth+x]
}

// SetFloat sets a pixel using float logical coordinates (applies scaling).
func (c *Canvas) SetFloat(x, y float64, col color.Color) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)), toRGBA(col))
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, col color.Color) {
	rgba := toRGBA(col)
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, rgba)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon on the canvas.
// If filled is true, the interior is filled using scanline algorithm.
func (c *Canvas) DrawPolygon(points []Point, filled bool, col color.Color) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points, toRGBA(col))
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], col)
	}
}

// DrawCircle draws a circle of radius r around (cx, cy) as a polygon.
func (c *Canvas) DrawCircle(cx, cy, r float64, filled bool, col color.Color) {
	const segments = 24
	pts := make([]Point, segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / segments
		pts[i] = Point{X: cx + math.Cos(a)*r, Y: cy + math.Sin(a)*r}
	}
	c.DrawPolygon(pts, filled, col)
}

// DrawRect outlines the rectangle with corners (x0, y0) and (x1, y1) using
// a border of the given logical width.
func (c *Canvas) DrawRect(x0, y0, x1, y1, width float64, col color.Color) {
	if width <= 0 {
		return
	}
	c.FillRect(x0, y0, x1, y0+width, col, 255)
	c.FillRect(x0, y1-width, x1, y1, col, 255)
	c.FillRect(x0, y0, x0+width, y1, col, 255)
	c.FillRect(x1-width, y0, x1, y1, col, 255)
}

// FillRect fills the rectangle with corners (x0, y0) and (x1, y1) with col
// at the given opacity (0-255).
func (c *Canvas) FillRect(x0, y0, x1, y1 float64, col color.Color, alpha uint8) {
	rgba := toRGBA(col)
	px0 := int(math.Floor(x0 * c.scaleX))
	py0 := int(math.Floor(y0 * c.scaleY))
	px1 := int(math.Ceil(x1*c.scaleX)) - 1
	py1 := int(math.Ceil(y1*c.scaleY)) - 1
	for y := max(py0, 0); y <= min(py1, c.subPixelHeight-1); y++ {
		for x := max(px0, 0); x <= min(px1, c.termWidth-1); x++ {
			c.blendPixel(x, y, rgba, alpha)
		}
	}
}

// DrawImage draws img centred on the logical point (cx, cy). Each terminal
// sub-pixel samples the nearest source pixel and blends it by its alpha.
func (c *Canvas) DrawImage(img image.Image, cx, cy float64) {
	if img == nil {
		return
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	left, top := cx-w/2, cy-h/2

	px0 := int(math.Floor(left * c.scaleX))
	py0 := int(math.Floor(top * c.scaleY))
	px1 := int(math.Ceil((left + w) * c.scaleX))
	py1 := int(math.Ceil((top + h) * c.scaleY))

	for py := max(py0, 0); py < min(py1, c.subPixelHeight); py++ {
		// Centre of this sub-pixel in source coordinates.
		sy := int(math.Floor((float64(py)+0.5)/c.scaleY - top))
		if sy < 0 || sy >= b.Dy() {
			continue
		}
		for px := max(px0, 0); px < min(px1, c.termWidth); px++ {
			sx := int(math.Floor((float64(px)+0.5)/c.scaleX - left))
			if sx < 0 || sx >= b.Dx() {
				continue
			}
			r, g, bl, a := img.At(b.Min.X+sx, b.Min.Y+sy).RGBA()
			if a == 0 {
				continue
			}
			// Un-premultiply to get the straight colour.
			src := color.RGBA{
				R: uint8(r * 0xff / a),
				G: uint8(g * 0xff / a),
				B: uint8(bl * 0xff / a),
				A: 0xff,
			}
			c.blendPixel(px, py, src, uint8(a>>8))
		}
	}
}

// fillPolygon fills a polygon using scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) fillPolygon(points []Point, col color.RGBA) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{
			X: p.X * c.scaleX,
			Y: p.Y * c.scaleY,
		}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// Render writes every changed cell to w as a coloured half-block. The
// foreground paints the upper sub-pixel and the background the lower one.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	var fg, bg color.RGBA
	colorsSet := false
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		cursorCol := -1 // column the terminal cursor sits on, if in this row

		for col := 0; col < c.termWidth; col++ {
			cur := cell{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			i := row*c.termWidth + col
			if c.prevValid[i] && c.prev[i] == cur {
				continue
			}
			c.prev[i] = cur
			c.prevValid[i] = true

			if cursorCol != col {
				c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			if !colorsSet || fg != cur.top {
				c.writeSGR(38, cur.top)
				fg = cur.top
			}
			if !colorsSet || bg != cur.bottom {
				c.writeSGR(48, cur.bottom)
				bg = cur.bottom
			}
			colorsSet = true
			c.renderBuf.WriteRune(BlockUpperHalf)
			cursorCol = col + 1
		}
	}

	if c.renderBuf.Len() == 0 {
		return
	}
	c.renderBuf.WriteString(ColorReset)
	io.WriteString(w, c.renderBuf.String())
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// writeSGR emits a 24-bit colour escape; base is 38 (fg) or 48 (bg).
func (c *Canvas) writeSGR(base int, col color.RGBA) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(base), 10))
	c.renderBuf.WriteString(";2;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col.R), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col.G), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col.B), 10))
	c.renderBuf.WriteByte('m')
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the canvas column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the canvas row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based position
// (col, row) inside the render area.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

func toRGBA(col color.Color) color.RGBA {
	if rgba, ok := col.(color.RGBA); ok {
		return rgba
	}
	r, g, b, a := col.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

// blend composites src over dst with the given opacity.
func blend(dst, src color.RGBA, alpha uint8) color.RGBA {
	switch alpha {
	case 0:
		return dst
	case 0xff:
		return color.RGBA{R: src.R, G: src.G, B: src.B, A: 0xff}
	}
	a := uint32(alpha)
	mix := func(d, s uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(0xff-a) + 0x7f) / 0xff)
	}
	return color.RGBA{R: mix(dst.R, src.R), G: mix(dst.G, src.G), B: mix(dst.B, src.B), A: 0xff}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
