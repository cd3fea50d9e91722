package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/odeview/internal/result"
	"github.com/san-kum/odeview/internal/solver"
	"github.com/san-kum/odeview/internal/storage"
)

var (
	method   string
	t0       float64
	t1       float64
	dt       float64
	outPath  string
	params   []string
	y0       []float64
	archived bool
)

func newDemoCmd() *cobra.Command {
	defaults := solver.DefaultOptions()

	cmd := &cobra.Command{
		Use:       "demo [equation]",
		Short:     "solve a built-in equation and write its payload",
		Long:      "Solve one of the built-in equations (" + strings.Join(solver.Equations(), ", ") + ") and write the result as a payload file.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: solver.Equations(),
		RunE:      runDemo,
	}
	cmd.Flags().StringVar(&method, "method", "rk4", "integration method ("+strings.Join(solver.Methods(), ", ")+")")
	cmd.Flags().Float64Var(&t0, "t0", defaults.T0, "start time")
	cmd.Flags().Float64Var(&t1, "t1", defaults.T1, "end time")
	cmd.Flags().Float64Var(&dt, "dt", defaults.Dt, "time step")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "payload file (default <equation>.json)")
	cmd.Flags().StringArrayVar(&params, "param", nil, "equation parameter as key=value (repeatable)")
	cmd.Flags().Float64SliceVar(&y0, "y0", nil, "initial state, comma separated (default per equation)")
	cmd.Flags().BoolVar(&archived, "archive", false, "also save the run to the archive")
	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	eq, err := solver.NewEquation(args[0])
	if err != nil {
		return err
	}
	integ, err := solver.NewIntegrator(method)
	if err != nil {
		return err
	}
	for _, p := range params {
		key, value, err := parseParam(p)
		if err != nil {
			return err
		}
		if err := eq.SetParam(key, value); err != nil {
			return err
		}
	}

	logger, closer, err := openLogger(false)
	if err != nil {
		return err
	}
	defer closer.Close()

	opts := solver.Options{T0: t0, T1: t1, Dt: dt}
	if len(y0) > 0 {
		opts.Y0 = solver.State(y0)
	}
	samples, err := solver.Solve(cmd.Context(), eq, integ, opts)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = eq.Name() + ".json"
	}
	data, err := json.MarshalIndent(solver.Payload(samples), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	logger.Info("payload written", "equation", eq.Name(), "method", method, "samples", len(samples), "path", path)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d samples -> %s\n", eq.Title(), len(samples), path)

	if !archived {
		return nil
	}

	r, err := result.FromSamples(samples)
	if err != nil {
		return err
	}
	archive := storage.New(cfg.DataDir)
	if err := archive.Init(); err != nil {
		return err
	}
	meta, err := archive.Save(eq.Title(), eq.Name()+"/"+method, eq.GetParams(), r)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "archived as %s\n", meta.ID)
	return nil
}

func parseParam(s string) (string, float64, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return "", 0, fmt.Errorf("invalid parameter %q, expected key=value", s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return key, v, nil
}
