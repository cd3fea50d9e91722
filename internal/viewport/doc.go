// Package viewport reduces projected series to what a chart can draw.
//
// The package provides the pure geometry of the rendering pipeline:
//
//   - [Range]: a closed numeric interval with padding, zoom and pan
//   - [Reduce]: clip a series to a visible X range and downsample it to a point budget
//   - [Fit]: padded bounding box over every projected series
//
// # Downsampling
//
// Downsampling is a fixed-stride pick: for a clipped series of n points and a
// budget b < n, stride = n/b is computed in floating point and point
// floor(i*stride) is kept for i in [0, b). The first clipped point is always
// kept and the output is identical for identical input.
//
//	visible := viewport.Range{Min: 0, Max: 10}.Pad(0.05)
//	pts, err := viewport.Reduce(series, visible, 200)
package viewport
