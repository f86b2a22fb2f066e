package viz

import (
	"strings"
)

// Braille cells are 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBlank = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a Braille dot grid mapped onto a rectangle of the plane.
// It has Width*2 by Height*4 dots; y grows upwards.
type Canvas struct {
	Width, Height int
	XMin, XMax    float64
	YMin, YMax    float64
	cells         []rune
}

func NewCanvas(w, h int, xRange, yRange [2]float64) *Canvas {
	c := &Canvas{
		Width: w, Height: h,
		XMin: xRange[0], XMax: xRange[1],
		YMin: yRange[0], YMax: yRange[1],
		cells: make([]rune, w*h),
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBlank
	}
}

// dot maps a point of the plane to dot coordinates.
func (c *Canvas) dot(x, y float64) (int, int, bool) {
	if !(x >= c.XMin && x <= c.XMax && y >= c.YMin && y <= c.YMax) {
		return 0, 0, false
	}
	dw, dh := c.Width*2-1, c.Height*4-1
	dx := int((x - c.XMin) / (c.XMax - c.XMin) * float64(dw))
	dy := dh - int((y-c.YMin)/(c.YMax-c.YMin)*float64(dh))
	return dx, dy, true
}

func (c *Canvas) setDot(dx, dy int) {
	col, row := dx/2, dy/4
	if dx < 0 || dy < 0 || col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row*c.Width+col] |= dotBits[dy%4][dx%2]
}

// Point marks (x, y); points outside the rectangle are dropped.
func (c *Canvas) Point(x, y float64) {
	if dx, dy, ok := c.dot(x, y); ok {
		c.setDot(dx, dy)
	}
}

// Line joins two points with Bresenham's algorithm when both are visible.
func (c *Canvas) Line(x0, y0, x1, y1 float64) {
	ax, ay, ok0 := c.dot(x0, y0)
	bx, by, ok1 := c.dot(x1, y1)
	if !ok0 || !ok1 {
		c.Point(x0, y0)
		c.Point(x1, y1)
		return
	}

	dx, dy := abs(bx-ax), -abs(by-ay)
	sx, sy := 1, 1
	if ax > bx {
		sx = -1
	}
	if ay > by {
		sy = -1
	}
	err := dx + dy
	for {
		c.setDot(ax, ay)
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			ax += sx
		}
		if e2 <= dx {
			err += dx
			ay += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		b.WriteString(string(c.cells[row*c.Width : (row+1)*c.Width]))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
