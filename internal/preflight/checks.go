package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"converti/internal/config"
	"converti/internal/deps"
	"converti/internal/document"
)

const (
	toolFFmpeg  = "ffmpeg"
	toolFFprobe = "ffprobe"
	toolSoffice = "soffice"
)

// CheckNtfy verifies that the ntfy server hosting topicURL answers its
// health endpoint.
func CheckNtfy(ctx context.Context, topicURL string) Result {
	const name = "ntfy"

	parsed, err := url.Parse(topicURL)
	if err != nil || parsed.Host == "" {
		return Result{Name: name, Detail: fmt.Sprintf("invalid topic url %q", topicURL)}
	}
	health := url.URL{Scheme: parsed.Scheme, Host: parsed.Host, Path: "/v1/health"}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, health.String(), nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("health check failed (%v)", err)}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeHTTPError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Name: name, Detail: fmt.Sprintf("health check failed (%d)", resp.StatusCode)}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkAccess(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external tools. ffmpeg and ffprobe are only
// looked up through locator; soffice may also come from PATH.
func CheckSystemDeps(cfg *config.Config, locator *deps.Locator) []deps.Status {
	statuses := []deps.Status{
		locator.Status(toolFFmpeg, "Required for video, audio and webp conversion", false),
		locator.Status(toolFFprobe, "Used by converti inspect", true),
	}

	soffice := deps.Status{
		Name:        toolSoffice,
		Description: "Required for document to pdf conversion",
		Optional:    true,
	}
	path, err := document.NewSofficeDelegate(cfg, locator).Resolve()
	if err != nil {
		soffice.Command = cfg.Tools.Soffice
		soffice.Detail = "not found next to converti or on PATH"
	} else {
		soffice.Command = path
		soffice.Available = true
	}
	return append(statuses, soffice)
}

func summarizeHTTPError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (server unreachable)"
	}
	return err.Error()
}
