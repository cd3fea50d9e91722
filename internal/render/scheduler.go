// Package render decides when the chart is redrawn and what it is given.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/san-kum/odeview/internal/axis"
	"github.com/san-kum/odeview/internal/viewport"
)

// State is the scheduler's render state.
type State int32

const (
	Idle State = iota
	Rendering
)

func (s State) String() string {
	if s == Rendering {
		return "rendering"
	}
	return "idle"
}

// Outcome describes what a single tick did.
type Outcome int

const (
	OutcomeRendered Outcome = iota
	OutcomeSkipped
	OutcomeDropped
	OutcomeNoViewport
	OutcomeFailed
)

var outcomeNames = [...]string{"rendered", "skipped", "dropped", "no-viewport", "failed"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

var ErrNilRenderer = errors.New("render: renderer is nil")

// Series is one reduced result ready to draw.
type Series struct {
	Name   string
	Points []viewport.Point
}

// Frame is everything a renderer needs for one redraw.
type Frame struct {
	XRange   viewport.Range
	YRange   viewport.Range
	XAxis    string
	YAxis    string
	Series   []Series
	Warnings []axis.Warning
}

// Renderer draws a frame. Implementations must not call back into the
// scheduler synchronously except through Tick, which is then dropped.
type Renderer interface {
	Render(Frame) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame) error

func (f RendererFunc) Render(fr Frame) error { return f(fr) }

// Request is the snapshot a tick works from.
type Request struct {
	// Ranges holds the X range of every axis control; the visible range is
	// their union.
	Ranges      []viewport.Range
	YRange      viewport.Range
	Padding     float64
	Budget      int
	XAxis       string
	YAxis       string
	Projections []axis.Projection
	Warnings    []axis.Warning
	// Force renders even when the visible range is unchanged. It is read by
	// TickSnapshot; Tick also honours it.
	Force bool
}

// Stats counts tick outcomes since the scheduler was created.
type Stats struct {
	Ticks   uint64
	Renders uint64
	Skipped uint64
	Dropped uint64
	Failed  uint64
}

// Scheduler redraws only when the visible range changed or a redraw was
// forced. Tick is safe to call from several goroutines; a tick that arrives
// while another is rendering is dropped.
type Scheduler struct {
	renderer Renderer
	logger   *slog.Logger

	state atomic.Int32
	force atomic.Bool

	// last is only touched by the goroutine holding the Rendering state.
	last viewport.Range

	ticks, renders, skipped, dropped, failed atomic.Uint64
}

func NewScheduler(r Renderer, logger *slog.Logger) (*Scheduler, error) {
	if r == nil {
		return nil, ErrNilRenderer
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		renderer: r,
		logger:   logger,
		last:     viewport.Range{Min: math.NaN(), Max: math.NaN()},
	}, nil
}

// Invalidate forces the next tick to render.
func (s *Scheduler) Invalidate() {
	s.force.Store(true)
}

// TakeForce clears the pending forced render and reports whether one was set.
// A caller that snapshots its state under its own lock takes the flag there
// and passes it as Request.Force to TickSnapshot, so an Invalidate that
// arrives after the snapshot is left for the next tick.
func (s *Scheduler) TakeForce() bool {
	return s.force.Swap(false)
}

func (s *Scheduler) State() State { return State(s.state.Load()) }

func (s *Scheduler) Stats() Stats {
	return Stats{
		Ticks:   s.ticks.Load(),
		Renders: s.renders.Load(),
		Skipped: s.skipped.Load(),
		Dropped: s.dropped.Load(),
		Failed:  s.failed.Load(),
	}
}

// Tick runs one scheduling step, consuming any pending forced render.
func (s *Scheduler) Tick(req Request) (Outcome, error) {
	return s.tick(req, true)
}

// TickSnapshot runs one scheduling step forced only by req.Force. The pending
// flag set by Invalidate is not consumed. A forced request that does not
// render re-arms the flag.
func (s *Scheduler) TickSnapshot(req Request) (Outcome, error) {
	return s.tick(req, false)
}

func (s *Scheduler) tick(req Request, takePending bool) (Outcome, error) {
	if !s.state.CompareAndSwap(int32(Idle), int32(Rendering)) {
		s.rearm(req.Force)
		s.dropped.Add(1)
		return OutcomeDropped, nil
	}
	defer s.state.Store(int32(Idle))

	s.ticks.Add(1)

	if req.Budget <= 0 {
		s.rearm(req.Force)
		s.failed.Add(1)
		return OutcomeFailed, fmt.Errorf("%w: %d", viewport.ErrInvalidBudget, req.Budget)
	}
	if math.IsNaN(req.Padding) || req.Padding < 0 {
		s.rearm(req.Force)
		s.failed.Add(1)
		return OutcomeFailed, fmt.Errorf("%w: %v", viewport.ErrInvalidPadding, req.Padding)
	}

	union, ok := viewport.Union(req.Ranges...)
	if !ok {
		s.rearm(req.Force)
		return OutcomeNoViewport, nil
	}
	visible := union.Pad(req.Padding)

	// cleared before drawing so an Invalidate during Render survives
	forced := req.Force
	if takePending {
		forced = s.force.Swap(false) || forced
	}

	if visible == s.last && !forced {
		s.skipped.Add(1)
		return OutcomeSkipped, nil
	}

	frame := Frame{
		XRange:   visible,
		YRange:   req.YRange,
		XAxis:    req.XAxis,
		YAxis:    req.YAxis,
		Series:   make([]Series, 0, len(req.Projections)),
		Warnings: req.Warnings,
	}
	for _, p := range req.Projections {
		pts, err := viewport.Reduce(p.Points(), visible, req.Budget)
		if err != nil {
			s.force.Store(true)
			s.failed.Add(1)
			return OutcomeFailed, err
		}
		frame.Series = append(frame.Series, Series{Name: p.Name, Points: pts})
	}

	if err := s.renderer.Render(frame); err != nil {
		s.force.Store(true)
		s.failed.Add(1)
		s.logger.Error("render failed", "error", err, "x_axis", req.XAxis, "y_axis", req.YAxis)
		return OutcomeFailed, fmt.Errorf("render: %w", err)
	}

	s.last = visible
	s.renders.Add(1)
	s.logger.Debug("rendered",
		"series", len(frame.Series),
		"x_min", visible.Min,
		"x_max", visible.Max,
		"budget", req.Budget,
		"forced", forced,
	)
	return OutcomeRendered, nil
}

func (s *Scheduler) rearm(force bool) {
	if force {
		s.force.Store(true)
	}
}
