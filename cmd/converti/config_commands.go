package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"converti/internal/config"
)

type configReport struct {
	Path     string            `json:"path"`
	Exists   bool              `json:"exists"`
	Settings map[string]string `json:"settings"`
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the converti configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the commented sample configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := configTarget(targetPath)
			if err != nil {
				return err
			}
			err = config.CreateSample(target, overwrite)
			if errors.Is(err, config.ErrConfigExists) {
				return fmt.Errorf("%w (pass --overwrite to replace it)", err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(cmd.OutOrStdout(), "Set tools.dir if ffmpeg is not bundled next to the converti executable.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

// configTarget expands an explicit --path, falling back to the default
// per-user location.
func configTarget(flagValue string) (string, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		path, err := config.ExpandPath(v)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return path, nil
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return path, nil
}

// newConfigValidateCommand loads the file itself so that load errors are
// reported as the command's result rather than by the root pre-run hook.
func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and show the effective settings",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var flagPath string
			if ctx.configFlag != nil {
				flagPath = *ctx.configFlag
			}
			cfg, resolved, exists, err := config.Load(strings.TrimSpace(flagPath))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			report := configReport{Path: resolved, Exists: exists, Settings: effectiveSettings(cfg)}
			if ctx.JSONMode() {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", resolved)
			if !exists {
				fmt.Fprintln(out, "No file at that path; built-in defaults apply")
			}
			rows := make([][]string, 0, len(settingKeys))
			for _, key := range settingKeys {
				rows = append(rows, []string{key, report.Settings[key]})
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows, nil))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

// settingKeys fixes the row order of the validate table.
var settingKeys = []string{
	"tools.dir",
	"conversion.output_suffix",
	"conversion.overwrite",
	"conversion.tool_timeout_seconds",
	"conversion.single_instance",
	"history.enabled",
	"notifications.ntfy_topic",
	"logging.level",
	"paths.log_dir",
}

func effectiveSettings(cfg *config.Config) map[string]string {
	topic := cfg.Notifications.NtfyTopic
	if topic == "" {
		topic = "(disabled)"
	}
	timeout := "none"
	if cfg.Conversion.ToolTimeoutSeconds > 0 {
		timeout = strconv.Itoa(cfg.Conversion.ToolTimeoutSeconds)
	}
	return map[string]string{
		"tools.dir":                       cfg.Tools.Dir,
		"conversion.output_suffix":        strconv.Quote(cfg.Conversion.OutputSuffix),
		"conversion.overwrite":            yesNo(cfg.Conversion.Overwrite),
		"conversion.tool_timeout_seconds": timeout,
		"conversion.single_instance":      yesNo(cfg.Conversion.SingleInstance),
		"history.enabled":                 yesNo(cfg.History.Enabled),
		"notifications.ntfy_topic":        topic,
		"logging.level":                   cfg.Logging.Level,
		"paths.log_dir":                   cfg.Paths.LogDir,
	}
}
