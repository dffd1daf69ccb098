package draw

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block
// characters. Drawing uses logical coordinates that are scaled to fit the
// terminal. Render only emits cells that changed since the previous frame.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int    // termHeight * 2
	pixels         []bool // [y * termWidth + x]
	shown          []rune // cell contents after the last Render, 0 if unknown

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets of the render area.
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
}

// NewScaledCanvas creates a canvas mapping logicalWidth x logicalHeight onto a
// termWidth x termHeight cell area.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size. A change in size forces a full redraw.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]bool, c.subPixelHeight*termWidth)
		c.shown = make([]rune, termHeight*termWidth)
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the 0-based column and row offset of the render area.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// TerminalWidth returns the canvas width in terminal columns.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the canvas height in terminal rows.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// Clear resets all pixels. The terminal is only updated on Render.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render emit every cell, e.g. after the terminal
// was cleared.
func (c *Canvas) ForceRedraw() {
	clear(c.shown)
}

// MarkTextDirty records that text was written over cells so the next Render
// repaints them.
func (c *Canvas) MarkTextDirty(col, row, length int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := max(col-1, 0); x < min(col-1+length, c.termWidth); x++ {
		c.shown[r*c.termWidth+x] = 0
	}
}

func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = true
	}
}

func (c *Canvas) toPixel(p Point) (float64, float64) {
	return p.X * c.scaleX, p.Y * c.scaleY
}

// SetFloat sets the pixel under a logical point.
func (c *Canvas) SetFloat(x, y float64) {
	px, py := c.toPixel(Point{X: x, Y: y})
	c.setPixel(int(math.Round(px)), int(math.Round(py)))
}

// DrawLine draws a line between two logical points using Bresenham's
// algorithm.
func (c *Canvas) DrawLine(p1, p2 Point) {
	fx1, fy1 := c.toPixel(p1)
	fx2, fy2 := c.toPixel(p2)
	x1, y1 := int(math.Round(fx1)), int(math.Round(fy1))
	x2, y2 := int(math.Round(fx2)), int(math.Round(fy2))

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
		c.setPixel(x1, y1)

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

// DrawCircle draws a circle of logical radius r. Unequal scale factors turn
// it into an ellipse in pixel space, which is what keeps it round on screen.
func (c *Canvas) DrawCircle(center Point, r float64, filled bool) {
	cx, cy := c.toPixel(center)
	rx, ry := r*c.scaleX, r*c.scaleY

	if rx < 0.75 && ry < 0.75 {
		c.setPixel(int(math.Round(cx)), int(math.Round(cy)))
		return
	}

	if filled {
		for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
			dy := (float64(y) - cy) / ry
			if dy*dy > 1 {
				continue
			}
			half := rx * math.Sqrt(1-dy*dy)
			for x := int(math.Ceil(cx - half)); x <= int(math.Floor(cx+half)); x++ {
				c.setPixel(x, y)
			}
		}
	}

	steps := max(12, int(2*math.Pi*max(rx, ry)))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		sin, cos := math.Sincos(a)
		c.setPixel(int(math.Round(cx+rx*cos)), int(math.Round(cy+ry*sin)))
	}
}

func (c *Canvas) cell(col, row int) rune {
	top := c.pixels[row*2*c.termWidth+col]
	bottom := c.pixels[(row*2+1)*c.termWidth+col]
	switch {
	case top && bottom:
		return BlockFull
	case top:
		return BlockUpperHalf
	case bottom:
		return BlockLowerHalf
	default:
		return ' '
	}
}

// Render writes every cell whose contents changed since the last Render.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			ch := c.cell(col, row)
			idx := row*c.termWidth + col
			if c.shown[idx] == ch {
				continue
			}
			c.shown[idx] = ch
			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH%c", row+1+c.offsetRow, col+1+c.offsetCol, ch)
		}
	}

	io.WriteString(w, c.renderBuf.String())
}

// RenderBorder frames the canvas when the terminal is larger than the render
// area.
func (c *Canvas) RenderBorder(w io.Writer) {
	if c.offsetCol < 1 || c.offsetRow < 1 {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, bar)
	fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, bar)
	for row := top + 1; row < bottom; row++ {
		fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
	}

	io.WriteString(w, buf.String())
}

