// Package session owns the result store, the axis selection and the chart
// viewport, and feeds them to the render scheduler.
//
// Every method is safe for concurrent use. State changes happen under one
// mutex; Tick snapshots that state and renders outside the lock so that a slow
// renderer never blocks data ingestion or key handling.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/san-kum/odeview/internal/axis"
	"github.com/san-kum/odeview/internal/config"
	"github.com/san-kum/odeview/internal/render"
	"github.com/san-kum/odeview/internal/result"
	"github.com/san-kum/odeview/internal/store"
	"github.com/san-kum/odeview/internal/viewport"
)

var (
	ErrUnknownQuality = errors.New("session: unknown quality preset")
	ErrInvalidFactor  = errors.New("session: zoom factor must be a positive number")
	ErrInvalidView    = errors.New("session: view must have finite, ordered bounds")
)

// ViewLimit bounds every viewport coordinate.
const ViewLimit = 1e8

// DefaultView is the viewport before any data arrives.
var DefaultView = viewport.Box{
	X: viewport.Range{Min: 0, Max: 10},
	Y: viewport.Range{Min: 0, Max: 10},
}

type Session struct {
	mu sync.Mutex

	store       *store.Store
	sel         axis.Selection
	projections []axis.Projection
	warnings    []axis.Warning

	budget   int
	zoomStep float64
	padding  config.PaddingConfig
	view     viewport.Box

	sched  *render.Scheduler
	logger *slog.Logger
}

// New creates an empty session drawing through r.
func New(cfg *config.Config, r render.Renderer, logger *slog.Logger) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sched, err := render.NewScheduler(r, logger.With("component", "scheduler"))
	if err != nil {
		return nil, err
	}

	s := &Session{
		store:    store.New(),
		budget:   cfg.Budget(),
		zoomStep: cfg.ZoomStep,
		padding:  cfg.Padding,
		view:     DefaultView,
		sched:    sched,
		logger:   logger,
	}
	s.sched.Invalidate()
	return s, nil
}

// AddResult stores r under name and refits the view. The first result is
// fitted with the coarse padding.
func (s *Session) AddResult(name string, r *result.Columnar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(name, r)
}

// AddPayload stores r under an automatic "<n>. <title>" name and returns it.
func (s *Session) AddPayload(title string, r *result.Columnar) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.store.AutoName(title)
	if err := s.addLocked(name, r); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Session) addLocked(name string, r *result.Columnar) error {
	first := s.store.Count() == 0
	if err := s.store.Add(name, r); err != nil {
		return err
	}

	s.logger.Info("result added", "name", name, "axes", r.Axes(), "points", r.Len())

	padding := s.padding.Fit
	if first {
		padding = s.padding.Coarse
	}
	s.refreshLocked(padding)
	return nil
}

func (s *Session) RemoveResult(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Remove(name) {
		return false
	}
	s.logger.Info("result removed", "name", name)
	s.refreshLocked(s.padding.Fit)
	return true
}

// Clear drops every result. The selection resets to none and the view is
// kept as it was.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Clear()
	s.logger.Info("results cleared")
	s.refreshLocked(s.padding.Fit)
}

// SelectAxes sets the X and Y axes and refits the view.
func (s *Session) SelectAxes(x, y string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if x == s.sel.X() && y == s.sel.Y() {
		return nil
	}
	if err := s.sel.Set(x, y); err != nil {
		return err
	}
	s.reprojectLocked(s.padding.Fit)
	return nil
}

func (s *Session) CycleX(step int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sel.CycleX(step) {
		return false
	}
	s.reprojectLocked(s.padding.Fit)
	return true
}

func (s *Session) CycleY(step int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sel.CycleY(step) {
		return false
	}
	s.reprojectLocked(s.padding.Fit)
	return true
}

func (s *Session) SetPointBudget(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", viewport.ErrInvalidBudget, n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n != s.budget {
		s.budget = n
		s.sched.Invalidate()
	}
	return nil
}

// SetQuality applies a named quality preset.
func (s *Session) SetQuality(name string) error {
	n, ok := config.GetQuality(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuality, name)
	}
	return s.SetPointBudget(n)
}

// Zoom scales both axes about their midpoints. A factor below 1 zooms in.
func (s *Session) Zoom(factor float64) error {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidFactor, factor)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setViewLocked(viewport.Box{X: s.view.X.Zoom(factor), Y: s.view.Y.Zoom(factor)})
}

func (s *Session) ZoomIn() error  { return s.Zoom(1 - s.zoomStep) }
func (s *Session) ZoomOut() error { return s.Zoom(1 + s.zoomStep) }

// Pan moves the X axis by fraction of its span.
func (s *Session) Pan(fraction float64) error {
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) {
		return fmt.Errorf("%w: pan %v", ErrInvalidView, fraction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setViewLocked(viewport.Box{X: s.view.X.Pan(fraction), Y: s.view.Y})
}

func (s *Session) SetView(b viewport.Box) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setViewLocked(b)
}

func (s *Session) setViewLocked(b viewport.Box) error {
	if !b.Valid() {
		return fmt.Errorf("%w: %+v", ErrInvalidView, b)
	}
	b.X = clampRange(b.X)
	b.Y = clampRange(b.Y)
	if b != s.view {
		s.view = b
		s.sched.Invalidate()
	}
	return nil
}

// ResetZoom refits the view to the projected data with the fit padding.
func (s *Session) ResetZoom() error {
	return s.Fit(s.padding.Fit)
}

// Fit sets the view to the bounding box of the projected data. With no
// projected data it returns viewport.ErrEmptyDataSet and keeps the view.
func (s *Session) Fit(padding float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fitLocked(padding)
}

func (s *Session) fitLocked(padding float64) error {
	box, err := viewport.Fit(axis.Series(s.projections), padding)
	if err != nil {
		return err
	}
	return s.setViewLocked(box)
}

// Tick runs one render scheduling step.
func (s *Session) Tick() (render.Outcome, error) {
	s.mu.Lock()
	req := render.Request{
		Ranges:      []viewport.Range{s.view.X},
		YRange:      s.view.Y,
		Padding:     s.padding.Tick,
		Budget:      s.budget,
		XAxis:       s.sel.X(),
		YAxis:       s.sel.Y(),
		Projections: s.projections,
		Warnings:    s.warnings,
		// taken with the snapshot: a mutation after Unlock re-arms the
		// scheduler for the next tick
		Force: s.sched.TakeForce(),
	}
	s.mu.Unlock()

	return s.sched.TickSnapshot(req)
}

// Invalidate forces the next tick to render, e.g. after a terminal resize.
func (s *Session) Invalidate() { s.sched.Invalidate() }

// refreshLocked re-reads the store axes after a store mutation.
func (s *Session) refreshLocked(padding float64) {
	s.sel.Update(s.store.Axes())
	s.reprojectLocked(padding)
}

func (s *Session) reprojectLocked(padding float64) {
	s.projections, s.warnings = nil, nil
	if s.sel.Complete() {
		s.projections, s.warnings = axis.Project(s.store, s.sel.X(), s.sel.Y())
	}
	for _, w := range s.warnings {
		s.logger.Warn("result skipped", "result", w.Result, "x_axis", w.XAxis, "y_axis", w.YAxis, "missing", w.Missing)
	}

	if err := s.fitLocked(padding); err != nil && !errors.Is(err, viewport.ErrEmptyDataSet) {
		s.logger.Error("auto-fit failed", "error", err)
	}
	s.sched.Invalidate()
}

func clampRange(r viewport.Range) viewport.Range {
	return viewport.Range{
		Min: math.Max(-ViewLimit, math.Min(ViewLimit, r.Min)),
		Max: math.Max(-ViewLimit, math.Min(ViewLimit, r.Max)),
	}
}

func (s *Session) Names() []string { return s.store.Names() }
func (s *Session) Axes() []string  { return s.store.Axes() }
func (s *Session) Count() int      { return s.store.Count() }

// Result returns the stored result called name.
func (s *Session) Result(name string) (*result.Columnar, error) {
	return s.store.Get(name)
}

// Selection returns the current X and Y axis names; empty means none.
func (s *Session) Selection() (x, y string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.X(), s.sel.Y()
}

func (s *Session) View() viewport.Box {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) Budget() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget
}

// Warnings returns the results skipped by the current projection.
func (s *Session) Warnings() []axis.Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]axis.Warning(nil), s.warnings...)
}

func (s *Session) Stats() render.Stats { return s.sched.Stats() }
