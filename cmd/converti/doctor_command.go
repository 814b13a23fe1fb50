package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"converti/internal/deps"
	"converti/internal/preflight"
)

type doctorReport struct {
	Tools     []deps.Status      `json:"tools"`
	Checks    []preflight.Result `json:"checks"`
	Readiness []preflight.Result `json:"readiness"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check bundled tools, directories, and notification settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			locator, err := ctx.locator()
			if err != nil {
				return err
			}

			report := doctorReport{
				Tools:  preflight.CheckSystemDeps(cfg, locator),
				Checks: preflight.RunAll(cmd.Context(), cfg),
			}
			report.Readiness = preflight.Readiness(report.Tools)

			if ctx.JSONMode() {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			sw := newStatusWriter(out)
			sections := []struct {
				title string
				lines []string
			}{
				{"Tools", dependencyLines(report.Tools, sw.colorize)},
				{"Environment", checkLines(report.Checks, map[string]bool{"ntfy": true}, sw.colorize)},
				{"Conversions", checkLines(report.Readiness, map[string]bool{"Documents": true, "WebP output": true}, sw.colorize)},
			}
			for i, section := range sections {
				if i > 0 {
					fmt.Fprintln(out)
				}
				sw.section(section.title)
				sw.lines(section.lines)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Tools directory: %s\n", locator.Dir())
			fmt.Fprintf(out, "History enabled: %s\n", yesNo(cfg.History.Enabled))
			return nil
		},
	}
}
