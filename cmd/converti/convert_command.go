package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"converti/internal/formats"
	"converti/internal/gui"
	"converti/internal/gui/viewmodel"
	"converti/internal/jobs"
	"converti/internal/services"
)

type convertReport struct {
	JobID      string `json:"job_id"`
	Input      string `json:"input"`
	Category   string `json:"category"`
	Output     string `json:"output_format"`
	OutputPath string `json:"output_path,omitempty"`
	Status     string `json:"status"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var target string
	var pick bool

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a file to another format",
		Long: "Convert a file to one of the formats offered for its type. Without --to the\n" +
			"first format of the menu is used (see `converti formats`).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := formats.Default()
			input, err := convertInput(registry, args, pick)
			if err != nil {
				return err
			}
			if input == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No file selected")
				return nil
			}

			model := viewmodel.New(registry)
			if err := model.SelectFile(input); err != nil {
				return err
			}
			if target = strings.TrimSpace(target); target != "" {
				spec, ok := registry.LookupOutput(model.Category, target)
				if !ok || !model.SelectOutput(spec.Label) {
					return services.Wrap(services.ErrUnsupportedFormat, "select", "",
						fmt.Sprintf("%s files cannot be converted to %q (choose one of: %s)",
							model.Category, target, strings.Join(model.Options, ", ")), nil)
				}
			}
			job, err := model.Job()
			if err != nil {
				return err
			}

			s, err := ctx.startSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.stop()

			sw := newStatusWriter(cmd.OutOrStdout())
			if !ctx.JSONMode() {
				sw.line("File", statusInfo, job.InputPath)
				sw.line("Type", statusInfo, cases.Upper(language.English).String(job.Category.String()))
				sw.line("Format", statusInfo, job.Output.Label)
				sw.line("Status", statusInfo, jobs.StatusWorking)
			}

			result, runErr := s.runner.Execute(cmd.Context(), job)
			if ctx.JSONMode() {
				if err := writeJSON(cmd, reportFor(job, result, runErr)); err != nil {
					return err
				}
				return runErr
			}
			if runErr != nil {
				sw.line("Status", statusError, jobs.StatusError)
				return runErr
			}
			sw.line("Status", statusOK, jobs.SuccessStatus(result.OutputPath))
			sw.line("Output", statusOK, result.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "to", "t", "", "Output format label or token (e.g. jpg, \"mp3 (Audio)\")")
	cmd.Flags().BoolVar(&pick, "pick", false, "Choose the input file with the system file dialog")
	return cmd
}

func convertInput(registry formats.Registry, args []string, pick bool) (string, error) {
	switch {
	case len(args) == 1 && pick:
		return "", errors.New("pass a file or --pick, not both")
	case len(args) == 1:
		return strings.TrimSpace(args[0]), nil
	case pick:
		return gui.PickFile(registry, "Choose a file to convert")
	default:
		return "", errors.New("a file argument or --pick is required")
	}
}

func reportFor(job jobs.Job, result jobs.Result, err error) convertReport {
	report := convertReport{
		JobID:      job.ID,
		Input:      job.InputPath,
		Category:   job.Category.String(),
		Output:     job.Output.Label,
		OutputPath: result.OutputPath,
		Status:     "succeeded",
		DurationMS: result.Duration().Milliseconds(),
	}
	if err != nil {
		report.Status = "failed"
		report.ErrorKind = result.ErrorKind
		if report.ErrorKind == "" {
			report.ErrorKind = services.Kind(err)
		}
		report.Error = err.Error()
	}
	return report
}
