package viz

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/odeview/internal/ingest"
)

// Run starts the viewer and, if w is non-nil, forwards its payloads into the
// program until the viewer exits.
func Run(ctx context.Context, m Model, w *ingest.Watcher, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	done := make(chan struct{})
	if w != nil {
		go func() {
			defer close(done)
			err := w.Run(ctx, func(ev ingest.Event) {
				p.Send(PayloadMsg(ev))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watcher stopped", "dir", w.Dir(), "error", err)
			}
		}()
	} else {
		close(done)
	}

	_, err := p.Run()
	cancel()
	<-done

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
