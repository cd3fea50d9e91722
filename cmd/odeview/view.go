package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/odeview/internal/config"
	"github.com/san-kum/odeview/internal/ingest"
	"github.com/san-kum/odeview/internal/session"
	"github.com/san-kum/odeview/internal/viz"
)

var (
	watchDir   string
	updateRate string
	themeName  string
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [payload.json...]",
		Short: "interactive chart of solver results",
		RunE:  runView,
	}
	cmd.Flags().StringVar(&watchDir, "watch", "", "directory to watch for new payload files")
	cmd.Flags().StringVar(&xAxis, "x", "", "X axis name")
	cmd.Flags().StringVar(&yAxis, "y", "", "Y axis name")
	cmd.Flags().StringVar(&quality, "quality", "", "quality preset (low, medium, high)")
	cmd.Flags().StringVar(&updateRate, "rate", "", "update rate preset (low, medium, high)")
	cmd.Flags().StringVar(&themeName, "theme", viz.ThemeCyberpunk.Name, "color theme")
	cmd.Flags().StringSliceVar(&runIDs, "run", nil, "archived run id to load (repeatable)")
	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	if err := withQuality(); err != nil {
		return err
	}
	if updateRate != "" {
		cfg.UpdateRate = updateRate
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w (choose from %v)", err, config.UpdateRateNames())
		}
	}
	if watchDir != "" {
		cfg.Watch.Dir = watchDir
	}

	logger, closer, err := openLogger(true)
	if err != nil {
		return err
	}
	defer closer.Close()

	chart := viz.NewChartRenderer(cfg.Chart.Width, cfg.Chart.Height, viz.GetTheme(themeName))
	sess, err := session.New(cfg, chart, logger)
	if err != nil {
		return err
	}
	if err := loadInputs(sess, args, runIDs); err != nil {
		return err
	}
	if err := applySelection(sess); err != nil {
		return err
	}

	var w *ingest.Watcher
	if cfg.Watch.Dir != "" {
		w, err = ingest.New(cfg.Watch.Dir, cfg.Debounce(), logger.With("component", "ingest"))
		if err != nil {
			return fmt.Errorf("watch %s: %w", cfg.Watch.Dir, err)
		}
	}

	logger.Info("viewer starting", "results", sess.Count(), "watch", cfg.Watch.Dir, "budget", sess.Budget())
	return viz.Run(cmd.Context(), viz.NewModel(sess, chart, cfg, logger), w, logger)
}
