package viz

import (
	"fmt"
	"io"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odeview/internal/render"
)

var graphColors = []asciigraph.AnsiColor{
	asciigraph.Cyan,
	asciigraph.Magenta,
	asciigraph.Yellow,
	asciigraph.Green,
	asciigraph.Red,
	asciigraph.Blue,
}

// GraphRenderer prints each frame as a static asciigraph plot. Points are
// laid out by their order within the visible window, so it suits a quick
// look rather than exact X alignment.
type GraphRenderer struct {
	Out    io.Writer
	Width  int
	Height int
}

func (g *GraphRenderer) Render(f render.Frame) error {
	data := make([][]float64, 0, len(f.Series))
	colors := make([]asciigraph.AnsiColor, 0, len(f.Series))
	names := make([]string, 0, len(f.Series))

	for i, s := range f.Series {
		if len(s.Points) == 0 {
			continue
		}
		ys := make([]float64, len(s.Points))
		for j, p := range s.Points {
			ys[j] = p.Y
		}
		data = append(data, ys)
		colors = append(colors, graphColors[i%len(graphColors)])
		names = append(names, s.Name)
	}

	if len(data) == 0 {
		_, err := fmt.Fprintf(g.Out, "no data for %s over %s\n", f.YAxis, f.XAxis)
		return err
	}

	caption := fmt.Sprintf("%s vs %s, %s in [%.4g, %.4g]: %s",
		f.YAxis, f.XAxis, f.XAxis, f.XRange.Min, f.XRange.Max, strings.Join(names, ", "))

	graph := asciigraph.PlotMany(data,
		asciigraph.Height(g.Height),
		asciigraph.Width(g.Width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
	_, err := fmt.Fprintln(g.Out, graph)
	return err
}
