package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"converti/internal/fileutil"
	"converti/internal/formats"
	"converti/internal/media/ffprobe"
	"converti/internal/services"
)

type inspectReport struct {
	Path     string          `json:"path"`
	Category string          `json:"category"`
	Outputs  []string        `json:"outputs"`
	Size     int64           `json:"size_bytes"`
	Probe    json.RawMessage `json:"ffprobe,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show how converti classifies a file and, for media, what ffprobe reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(args[0])
			if err := fileutil.RequireInput(path); err != nil {
				return err
			}
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}

			registry := formats.Default()
			category, ok := registry.ClassifyPath(path)
			if !ok {
				return services.Wrap(services.ErrUnsupportedFormat, "inspect", "", "unsupported file type", nil)
			}
			report := inspectReport{
				Path:     path,
				Category: category.String(),
				Outputs:  registry.Labels(category),
				Size:     info.Size(),
			}

			var probe *ffprobe.Result
			var probeErr error
			if category == formats.CategoryVideo || category == formats.CategoryAudio {
				locator, err := ctx.locator()
				if err != nil {
					return err
				}
				result, err := ffprobe.Prober{Locator: locator}.Inspect(cmd.Context(), path)
				if err != nil {
					probeErr = err
				} else {
					probe = &result
					report.Probe = result.RawJSON()
				}
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			sw := newStatusWriter(out)
			sw.line("File", statusInfo, path)
			sw.line("Type", statusInfo, cases.Upper(language.English).String(report.Category))
			sw.line("Size", statusInfo, strconv.FormatInt(report.Size, 10)+" bytes")
			sw.line("Outputs", statusInfo, strings.Join(report.Outputs, ", "))
			if probeErr != nil {
				sw.line("ffprobe", statusWarn, probeErr.Error())
				return nil
			}
			if probe != nil {
				fmt.Fprintln(out, probeTable(*probe))
			}
			return nil
		},
	}
}

func probeTable(result ffprobe.Result) string {
	rows := [][]string{
		{"Container", result.Format.FormatName},
		{"Duration", result.Duration().String()},
		{"Bit rate", strconv.FormatInt(result.BitRate(), 10)},
		{"Video streams", strconv.Itoa(result.VideoStreamCount())},
		{"Audio streams", strconv.Itoa(result.AudioStreamCount())},
		{"Audio only", yesNo(result.AudioOnly())},
		{"Codecs", strings.Join(result.Codecs(), ", ")},
	}
	if res := result.Resolution(); res != "" {
		rows = append(rows, []string{"Resolution", res})
	}
	return renderTable([]string{"Property", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
