package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"converti/internal/formats"
)

type formatRow struct {
	Category string   `json:"category"`
	Inputs   []string `json:"inputs"`
	Outputs  []string `json:"outputs"`
}

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "formats",
		Short:       "List supported input extensions and output formats",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := formatRows(formats.Default())
			if ctx.JSONMode() {
				return writeJSON(cmd, rows)
			}
			upper := cases.Upper(language.English)
			table := make([][]string, 0, len(rows))
			for _, row := range rows {
				table = append(table, []string{
					upper.String(row.Category),
					strings.Join(row.Inputs, " "),
					strings.Join(row.Outputs, ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Type", "Inputs", "Outputs"}, table, nil))
			return nil
		},
	}
}

func formatRows(registry formats.Registry) []formatRow {
	categories := registry.Categories()
	rows := make([]formatRow, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, formatRow{
			Category: c.String(),
			Inputs:   registry.Inputs(c),
			Outputs:  registry.Labels(c),
		})
	}
	return rows
}
