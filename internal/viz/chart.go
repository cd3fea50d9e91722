package viz

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/odeview/internal/render"
	"github.com/san-kum/odeview/internal/viewport"
)

const (
	minChartWidth  = 10
	minChartHeight = 5
	labelWidth     = 10
)

// ChartRenderer draws frames onto a Braille canvas and keeps the last
// rendered chart for the TUI to display.
type ChartRenderer struct {
	mu     sync.Mutex
	canvas *Canvas
	theme  Theme
	styles Styles
	view   string
	frame  render.Frame
}

func NewChartRenderer(width, height int, theme Theme) *ChartRenderer {
	c := &ChartRenderer{theme: theme, styles: NewStyles(theme)}
	c.canvas = NewCanvas(clampSize(width, minChartWidth), clampSize(height, minChartHeight))
	return c
}

func clampSize(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}

// Resize changes the canvas size in cells. The next Render uses it.
func (c *ChartRenderer) Resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.canvas = NewCanvas(clampSize(width, minChartWidth), clampSize(height, minChartHeight))
}

func (c *ChartRenderer) SetTheme(t Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.theme = t
	c.styles = NewStyles(t)
}

func (c *ChartRenderer) Theme() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// Render implements render.Renderer.
func (c *ChartRenderer) Render(f render.Frame) error {
	if !f.XRange.Valid() || !f.YRange.Valid() {
		return fmt.Errorf("chart: invalid frame bounds x=%v y=%v", f.XRange, f.YRange)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.canvas.Clear()
	for i, s := range f.Series {
		c.plot(s.Points, f.XRange, f.YRange, i)
	}
	c.frame = f
	c.view = c.compose(f)
	return nil
}

func (c *ChartRenderer) plot(points []viewport.Point, xr, yr viewport.Range, series int) {
	w, h := c.canvas.DotsX(), c.canvas.DotsY()
	prevX, prevY, havePrev := 0, 0, false

	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			havePrev = false
			continue
		}
		x := toDot(p.X, xr, w)
		y := h - 1 - toDot(p.Y, yr, h)
		if havePrev {
			c.canvas.DrawLine(prevX, prevY, x, y, series)
		} else {
			c.canvas.Set(x, y, series)
		}
		prevX, prevY, havePrev = x, y, true
	}
}

// toDot maps v in r onto [0, n). Values far outside r are pinned just
// outside the canvas so lines leave at the right angle without long walks.
func toDot(v float64, r viewport.Range, n int) int {
	span := r.Span()
	if span == 0 {
		return n / 2
	}
	d := (v - r.Min) / span * float64(n-1)
	limit := float64(2 * n)
	d = math.Max(-limit, math.Min(limit, d))
	return int(math.Round(d))
}

func (c *ChartRenderer) compose(f render.Frame) string {
	rows := c.canvas.Rows(c.theme.Series)
	pad := strings.Repeat(" ", labelWidth)

	var b strings.Builder
	for i, row := range rows {
		label := pad
		switch i {
		case 0:
			label = fmt.Sprintf("%*s", labelWidth, formatTick(f.YRange.Max))
		case len(rows) - 1:
			label = fmt.Sprintf("%*s", labelWidth, formatTick(f.YRange.Min))
		}
		b.WriteString(c.styles.Axis.Render(label + " │"))
		b.WriteString(row)
		b.WriteByte('\n')
	}

	b.WriteString(c.styles.Axis.Render(pad + " └" + strings.Repeat("─", c.canvas.Width)))
	b.WriteByte('\n')

	lo, hi := formatTick(f.XRange.Min), formatTick(f.XRange.Max)
	gap := c.canvas.Width - len(lo) - len(hi)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(c.styles.Axis.Render(pad + "  " + lo + strings.Repeat(" ", gap) + hi))
	b.WriteByte('\n')

	legend := make([]string, 0, len(f.Series))
	for i, s := range f.Series {
		legend = append(legend, Swatch(c.theme.Series[i%len(c.theme.Series)], s.Name))
	}
	if len(legend) > 0 {
		b.WriteString(pad + "  " + strings.Join(legend, "  "))
	} else {
		b.WriteString(c.styles.Subtle.Render(pad + "  no data"))
	}
	return lipgloss.NewStyle().Render(b.String())
}

// View returns the last rendered chart.
func (c *ChartRenderer) View() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Frame returns the last rendered frame.
func (c *ChartRenderer) Frame() render.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

func formatTick(v float64) string {
	a := math.Abs(v)
	if a != 0 && (a >= 1e5 || a < 1e-3) {
		return fmt.Sprintf("%.2e", v)
	}
	return fmt.Sprintf("%.3g", v)
}
