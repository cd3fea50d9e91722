package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a Braille dot canvas. Each cell remembers which series drew into
// it last so the chart can be colored per series.
type Canvas struct {
	Width, Height int
	grid          [][]rune
	owner         [][]int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.grid = make([][]rune, h)
	c.owner = make([][]int, h)
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
		c.owner[i] = make([]int, w)
	}
	c.Clear()
	return c
}

// DotsX and DotsY are the canvas size in dots.
func (c *Canvas) DotsX() int { return c.Width * 2 }
func (c *Canvas) DotsY() int { return c.Height * 4 }

// Set turns on dot (x, y) for series s. Out of range dots are ignored.
func (c *Canvas) Set(x, y, s int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= pixelMap[y%4][x%2]
	c.owner[row][col] = s
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = brailleBlank
			c.owner[i][j] = -1
		}
	}
}

// DrawLine draws a Bresenham line between two dots for series s.
func (c *Canvas) DrawLine(x0, y0, x1, y1, s int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, s)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Rows renders each row, coloring runs of cells with the owning series'
// color from palette.
func (c *Canvas) Rows(palette []lipgloss.Color) []string {
	rows := make([]string, c.Height)
	for i := range c.grid {
		var b strings.Builder
		start := 0
		for j := 1; j <= c.Width; j++ {
			if j < c.Width && c.owner[i][j] == c.owner[i][start] {
				continue
			}
			run := string(c.grid[i][start:j])
			if s := c.owner[i][start]; s >= 0 && len(palette) > 0 {
				run = lipgloss.NewStyle().Foreground(palette[s%len(palette)]).Render(run)
			}
			b.WriteString(run)
			start = j
		}
		rows[i] = b.String()
	}
	return rows
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
