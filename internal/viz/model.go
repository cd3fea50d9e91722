package viz

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/odeview/internal/config"
	"github.com/san-kum/odeview/internal/ingest"
	"github.com/san-kum/odeview/internal/render"
	"github.com/san-kum/odeview/internal/session"
	"github.com/san-kum/odeview/internal/viewport"
)

const (
	panFraction = 0.1
	// rows used by header, axis labels, legend, status and help
	chromeRows = 9
)

// TickMsg drives the render scheduler.
type TickMsg time.Time

// PayloadMsg carries a payload picked up by the result inbox.
type PayloadMsg ingest.Event

// Model is the interactive viewer.
type Model struct {
	sess  *session.Session
	chart *ChartRenderer
	help  help.Model

	interval time.Duration
	rate     string
	quality  string

	outcome render.Outcome
	status  string
	err     error
	logger  *slog.Logger
}

func NewModel(sess *session.Session, chart *ChartRenderer, cfg *config.Config, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := help.New()
	return Model{
		sess:     sess,
		chart:    chart,
		help:     h,
		interval: cfg.Interval(),
		rate:     cfg.UpdateRate,
		quality:  cfg.Quality,
		logger:   logger,
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.chart.Resize(msg.Width-labelWidth-3, msg.Height-chromeRows)
		m.sess.Invalidate()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		out, err := m.sess.Tick()
		m.outcome = out
		if err != nil {
			m.err = err
			m.logger.Error("tick failed", "outcome", out.String(), "error", err)
		} else if out == render.OutcomeRendered {
			m.err = nil
		}
		return m, tick(m.interval)

	case PayloadMsg:
		m.addPayload(ingest.Event(msg))
	}
	return m, nil
}

func (m *Model) addPayload(ev ingest.Event) {
	if ev.Err != nil {
		m.err = ev.Err
		return
	}
	name, err := m.sess.AddPayload(ev.Name, ev.Result)
	if err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("loaded %s (%d points)", name, ev.Result.Len())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	m.status = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.NextX):
		m.sess.CycleX(1)
	case key.Matches(msg, keys.PrevX):
		m.sess.CycleX(-1)
	case key.Matches(msg, keys.NextY):
		m.sess.CycleY(1)
	case key.Matches(msg, keys.PrevY):
		m.sess.CycleY(-1)
	case key.Matches(msg, keys.ZoomIn):
		err = m.sess.ZoomIn()
	case key.Matches(msg, keys.ZoomOut):
		err = m.sess.ZoomOut()
	case key.Matches(msg, keys.Left):
		err = m.sess.Pan(-panFraction)
	case key.Matches(msg, keys.Right):
		err = m.sess.Pan(panFraction)
	case key.Matches(msg, keys.Reset):
		err = m.sess.ResetZoom()
		if errors.Is(err, viewport.ErrEmptyDataSet) {
			err = nil
		}
	case key.Matches(msg, keys.Low):
		err = m.setQuality("low")
	case key.Matches(msg, keys.Medium):
		err = m.setQuality("medium")
	case key.Matches(msg, keys.High):
		err = m.setQuality("high")
	case key.Matches(msg, keys.Rate):
		m.cycleRate()
	case key.Matches(msg, keys.Theme):
		m.chart.SetTheme(NextTheme(m.chart.Theme().Name))
		m.sess.Invalidate()
	case key.Matches(msg, keys.Delete):
		m.sess.Clear()
		m.status = "all results deleted"
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	m.err = err
	return m, nil
}

func (m *Model) setQuality(name string) error {
	if err := m.sess.SetQuality(name); err != nil {
		return err
	}
	m.quality = name
	return nil
}

func (m *Model) cycleRate() {
	names := config.UpdateRateNames()
	next := names[0]
	for i, n := range names {
		if n == m.rate {
			next = names[(i+1)%len(names)]
			break
		}
	}
	m.rate = next
	m.interval, _ = config.GetUpdateRate(next)
	m.status = fmt.Sprintf("update rate %s (%v)", next, m.interval)
}

func (m Model) View() string {
	styles := NewStyles(m.chart.Theme())
	x, y := m.sess.Selection()
	if x == "" {
		x, y = "-", "-"
	}

	header := styles.Header.Render("odeview") + "  " +
		styles.Label.Render("results ") + styles.Value.Render(fmt.Sprint(m.sess.Count())) + "  " +
		styles.Label.Render("X ") + styles.Value.Render(x) + "  " +
		styles.Label.Render("Y ") + styles.Value.Render(y) + "  " +
		styles.Label.Render("quality ") + styles.Value.Render(fmt.Sprintf("%s/%d", m.quality, m.sess.Budget())) + "  " +
		styles.Label.Render("rate ") + styles.Value.Render(m.rate)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(m.chart.View())
	b.WriteString("\n")

	if ws := m.sess.Warnings(); len(ws) > 0 {
		names := make([]string, len(ws))
		for i, w := range ws {
			names[i] = w.Result
		}
		b.WriteString(styles.Warning.Render(fmt.Sprintf("skipped (no %s/%s): %s", x, y, strings.Join(names, ", "))))
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(styles.Error.Render("error: " + m.err.Error()))
	case m.status != "":
		b.WriteString(styles.Subtle.Render(m.status))
	default:
		st := m.sess.Stats()
		b.WriteString(styles.Subtle.Render(fmt.Sprintf("renders %d  skipped %d  last %s", st.Renders, st.Skipped, m.outcome)))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))

	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}
