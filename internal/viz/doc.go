// Package viz renders stored results in the terminal.
//
// The interactive viewer is a Bubble Tea program. A periodic tick asks the
// session to render; the render scheduler skips ticks whose viewport did not
// change, so an idle chart costs almost nothing.
//
//   - [Model]: the viewer, fed by [TickMsg] and [PayloadMsg]
//   - [ChartRenderer]: Braille [Canvas] chart with per-series colors
//   - [GraphRenderer]: one-shot asciigraph plot for non-interactive output
//
// # Key Bindings
//
//	x/X   - Next/previous X axis
//	y/Y   - Next/previous Y axis
//	+/-   - Zoom in/out about the center
//	←/→   - Pan along X
//	r     - Reset zoom to fit the data
//	1/2/3 - Low/medium/high quality (points per series)
//	u     - Cycle update rate
//	t     - Cycle color theme
//	d     - Delete all results
//	?     - Toggle full help
package viz
