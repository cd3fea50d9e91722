package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/odeview/internal/config"
	"github.com/san-kum/odeview/internal/ingest"
	"github.com/san-kum/odeview/internal/storage"
)

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "keep results between sessions",
	}

	saveCmd := &cobra.Command{
		Use:   "save [payload.json...]",
		Short: "archive payload files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  archiveSave,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  archiveList,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.New(cfg.DataDir).Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(saveCmd, listCmd, deleteCmd)
	return cmd
}

func archiveSave(cmd *cobra.Command, args []string) error {
	archive := storage.New(cfg.DataDir)
	if err := archive.Init(); err != nil {
		return err
	}

	for _, path := range args {
		r, err := ingest.LoadFile(path)
		if err != nil {
			return err
		}
		meta, err := archive.Save(ingest.Title(path), path, nil, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", path, meta.ID)
	}
	return nil
}

func archiveList(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	fmt.Fprintf(out, "%-32s %-20s %-8s %s\n", "ID", "NAME", "POINTS", "TIME")
	fmt.Fprintln(out, strings.Repeat("-", 80))
	for _, r := range runs {
		fmt.Fprintf(out, "%-32s %-20s %-8d %s\n", r.ID, r.Name, r.Points, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list quality and update rate presets",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "quality (points per result):")
			for _, name := range config.QualityNames() {
				fmt.Fprintf(out, "  %-8s %d%s\n", name, config.QualityPresets[name], marker(name == cfg.Quality))
			}

			fmt.Fprintln(out, "update rate:")
			for _, name := range config.UpdateRateNames() {
				fmt.Fprintf(out, "  %-8s %s%s\n", name, config.UpdatePresets[name], marker(name == cfg.UpdateRate))
			}
		},
	}
}

func marker(current bool) string {
	if current {
		return " *"
	}
	return ""
}
