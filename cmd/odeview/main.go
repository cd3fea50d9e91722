package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/odeview/internal/config"
	"github.com/san-kum/odeview/internal/ingest"
	"github.com/san-kum/odeview/internal/logging"
	"github.com/san-kum/odeview/internal/session"
	"github.com/san-kum/odeview/internal/storage"
)

var (
	configFile string
	logLevel   string
	logFile    string
	dataDir    string

	// loaded in PersistentPreRunE
	cfg *config.Config

	// shared by view and plot
	xAxis   string
	yAxis   string
	runIDs  []string
	quality string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "odeview",
		Short:         "viewer for ODE solver results",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory for archived runs")

	rootCmd.AddCommand(
		newViewCmd(),
		newPlotCmd(),
		newInspectCmd(),
		newDemoCmd(),
		newArchiveCmd(),
		newPresetsCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the config file, then applies the global flag overrides.
// Without --config the default file is used when it exists.
func loadConfig(cmd *cobra.Command) error {
	path := configFile
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigFile()); err == nil {
			path = config.DefaultConfigFile()
		}
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.Logging.Level = logLevel
	}
	if flags.Changed("log-file") {
		c.Logging.File = logFile
	}
	if flags.Changed("data") {
		c.DataDir = dataDir
	}
	if err := c.Validate(); err != nil {
		return err
	}

	cfg = c
	return nil
}

// openLogger returns the command logger. The TUI owns the terminal, so with
// tui set and no log file configured everything is discarded.
func openLogger(tui bool) (*slog.Logger, io.Closer, error) {
	if tui && cfg.Logging.File == "" {
		return logging.Discard(), io.NopCloser(nil), nil
	}
	return logging.Open(cfg.Logging.File, cfg.Logging.Level)
}

// loadInputs adds payload files and archived runs to sess, in argument order.
func loadInputs(sess *session.Session, paths, runs []string) error {
	for _, path := range paths {
		r, err := ingest.LoadFile(path)
		if err != nil {
			return err
		}
		if _, err := sess.AddPayload(ingest.Title(path), r); err != nil {
			return err
		}
	}

	if len(runs) == 0 {
		return nil
	}

	archive := storage.New(cfg.DataDir)
	for _, id := range runs {
		meta, err := archive.Load(id)
		if err != nil {
			return err
		}
		r, err := archive.LoadResult(id)
		if err != nil {
			return err
		}
		if _, err := sess.AddPayload(meta.Name, r); err != nil {
			return err
		}
	}
	return nil
}

// applySelection selects the requested axes, keeping the automatic choice for
// any axis left empty.
func applySelection(sess *session.Session) error {
	if xAxis == "" && yAxis == "" {
		return nil
	}
	x, y := sess.Selection()
	if xAxis != "" {
		x = xAxis
	}
	if yAxis != "" {
		y = yAxis
	}
	if err := sess.SelectAxes(x, y); err != nil {
		return fmt.Errorf("select axes: %w", err)
	}
	return nil
}

// withQuality sets the quality preset on cfg when one was requested.
func withQuality() error {
	if quality == "" {
		return nil
	}
	cfg.Quality = quality
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w (choose from %v)", err, config.QualityNames())
	}
	return nil
}
