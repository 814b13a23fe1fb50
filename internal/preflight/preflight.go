package preflight

import (
	"context"

	"converti/internal/config"
	"converti/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the directory and service checks for the given config.
// Tool checks are reported separately by CheckSystemDeps.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if cfg.Notifications.NtfyTopic != "" {
		results = append(results, CheckNtfy(ctx, cfg.Notifications.NtfyTopic))
	}
	return results
}

// Readiness reports which categories can be converted given the tool
// statuses returned by CheckSystemDeps.
func Readiness(statuses []deps.Status) []Result {
	available := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		available[s.Name] = s.Available
	}

	media := Result{Name: "Video and audio", Passed: available[toolFFmpeg], Detail: "ffmpeg found"}
	if !media.Passed {
		media.Detail = "ffmpeg missing next to converti"
	}
	webp := Result{Name: "WebP output", Passed: available[toolFFmpeg], Detail: "encoded through ffmpeg"}
	if !webp.Passed {
		webp.Detail = "needs ffmpeg"
	}
	docs := Result{Name: "Documents", Passed: available[toolSoffice], Detail: "LibreOffice found"}
	if !docs.Passed {
		docs.Detail = "soffice not found"
	}
	return []Result{
		{Name: "Images", Passed: true, Detail: "built in"},
		webp,
		media,
		docs,
	}
}
