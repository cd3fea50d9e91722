package viz

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/odeview/internal/config"
	"github.com/san-kum/odeview/internal/ingest"
	"github.com/san-kum/odeview/internal/render"
	"github.com/san-kum/odeview/internal/result"
	"github.com/san-kum/odeview/internal/session"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	chart := NewChartRenderer(40, 10, ThemeMinimal)
	sess, err := session.New(cfg, chart, nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(sess, chart, cfg, nil)
}

func press(m Model, k string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return next.(Model)
}

func payload(t *testing.T) *result.Columnar {
	t.Helper()
	r, err := result.FromSamples([]result.Sample{
		{T: 0, Values: []float64{2, 0}},
		{T: 1, Values: []float64{1, -1}},
		{T: 2, Values: []float64{0, -2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestModel_Tick(t *testing.T) {
	m := newTestModel(t)

	next, cmd := m.Update(TickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("expected next tick to be scheduled")
	}
	m = next.(Model)
	if m.outcome != render.OutcomeRendered {
		t.Errorf("expected first tick to render, got %s", m.outcome)
	}

	next, _ = m.Update(TickMsg(time.Now()))
	if next.(Model).outcome != render.OutcomeSkipped {
		t.Errorf("expected second tick to skip, got %s", next.(Model).outcome)
	}
}

func TestModel_Payload(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(PayloadMsg(ingest.Event{Name: "VanDerPol", Result: payload(t)}))
	m = next.(Model)

	names := m.sess.Names()
	if len(names) != 1 || names[0] != "1. VanDerPol" {
		t.Errorf("unexpected names %v", names)
	}
	if m.status == "" {
		t.Error("expected status message")
	}
}

func TestModel_Keys(t *testing.T) {
	m := newTestModel(t)
	m.Update(PayloadMsg(ingest.Event{Name: "run", Result: payload(t)}))

	m = press(m, "x")
	if x, _ := m.sess.Selection(); x != "y0" {
		t.Errorf("expected X y0, got %s", x)
	}

	m = press(m, "3")
	if m.sess.Budget() != 400 || m.quality != "high" {
		t.Errorf("expected high quality, got %s/%d", m.quality, m.sess.Budget())
	}

	before := m.sess.View()
	m = press(m, "+")
	if m.sess.View().X.Span() >= before.X.Span() {
		t.Error("expected zoom in to shrink the view")
	}

	m = press(m, "u")
	if m.rate != "high" || m.interval != 100*time.Millisecond {
		t.Errorf("expected rate high/100ms, got %s/%v", m.rate, m.interval)
	}

	m = press(m, "d")
	if m.sess.Count() != 0 {
		t.Error("expected all results deleted")
	}
	if x, y := m.sess.Selection(); x != "" || y != "" {
		t.Errorf("expected no selection, got %q %q", x, y)
	}

	_, cmd := press(m, "q").Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	m.Update(PayloadMsg(ingest.Event{Name: "run", Result: payload(t)}))
	next, _ := m.Update(TickMsg(time.Now()))

	view := next.(Model).View()
	if view == "" {
		t.Fatal("expected view output")
	}
}
