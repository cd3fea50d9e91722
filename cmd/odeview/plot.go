package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/odeview/internal/render"
	"github.com/san-kum/odeview/internal/session"
	"github.com/san-kum/odeview/internal/viz"
)

var (
	budget      int
	graphHeight int
)

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [payload.json...]",
		Short: "print a static plot of solver results",
		RunE:  runPlot,
	}
	cmd.Flags().StringVar(&xAxis, "x", "", "X axis name")
	cmd.Flags().StringVar(&yAxis, "y", "", "Y axis name")
	cmd.Flags().StringVar(&quality, "quality", "", "quality preset (low, medium, high)")
	cmd.Flags().IntVar(&budget, "budget", 0, "points per result (overrides quality)")
	cmd.Flags().IntVar(&graphHeight, "height", 15, "plot height in rows")
	cmd.Flags().StringSliceVar(&runIDs, "run", nil, "archived run id to load (repeatable)")
	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [payload.json...]",
		Short: "describe loaded results and their axes",
		RunE:  runInspect,
	}
	cmd.Flags().StringVar(&xAxis, "x", "", "X axis name")
	cmd.Flags().StringVar(&yAxis, "y", "", "Y axis name")
	cmd.Flags().StringSliceVar(&runIDs, "run", nil, "archived run id to load (repeatable)")
	return cmd
}

func runPlot(cmd *cobra.Command, args []string) error {
	if err := withQuality(); err != nil {
		return err
	}

	logger, closer, err := openLogger(false)
	if err != nil {
		return err
	}
	defer closer.Close()

	graph := &viz.GraphRenderer{Out: cmd.OutOrStdout(), Width: cfg.Chart.Width, Height: graphHeight}
	sess, err := session.New(cfg, graph, logger)
	if err != nil {
		return err
	}
	if err := loadInputs(sess, args, runIDs); err != nil {
		return err
	}
	if err := applySelection(sess); err != nil {
		return err
	}
	if budget != 0 {
		if err := sess.SetPointBudget(budget); err != nil {
			return err
		}
	}

	outcome, err := sess.Tick()
	if err != nil {
		return err
	}
	if outcome != render.OutcomeRendered {
		return fmt.Errorf("nothing plotted: %s", outcome)
	}
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	logger, closer, err := openLogger(false)
	if err != nil {
		return err
	}
	defer closer.Close()

	noop := render.RendererFunc(func(render.Frame) error { return nil })
	sess, err := session.New(cfg, noop, logger)
	if err != nil {
		return err
	}
	if err := loadInputs(sess, args, runIDs); err != nil {
		return err
	}
	if err := applySelection(sess); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if sess.Count() == 0 {
		fmt.Fprintln(out, "no results")
		return nil
	}

	fmt.Fprintf(out, "%-30s %-8s %s\n", "RESULT", "POINTS", "AXES")
	fmt.Fprintln(out, strings.Repeat("-", 60))
	for _, name := range sess.Names() {
		r, err := sess.Result(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "%-30s %-8d %s\n", name, r.Len(), strings.Join(r.Axes(), ", "))
	}

	x, y := sess.Selection()
	view := sess.View()
	fmt.Fprintf(out, "\naxes:      %s\n", strings.Join(sess.Axes(), ", "))
	fmt.Fprintf(out, "selection: X=%s Y=%s\n", x, y)
	fmt.Fprintf(out, "view:      x [%.4g, %.4g]  y [%.4g, %.4g]\n", view.X.Min, view.X.Max, view.Y.Min, view.Y.Max)

	for _, w := range sess.Warnings() {
		fmt.Fprintf(out, "warning:   %s\n", w)
	}
	return nil
}
