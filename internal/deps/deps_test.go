package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"converti/internal/services"
)

var stubScript = []byte("#!/bin/sh\nexit 0\n")

func TestLocatorResolvesSidecar(t *testing.T) {
	dir := t.TempDir()
	ffmpegPath := filepath.Join(dir, executableName("ffmpeg"))
	if err := os.WriteFile(ffmpegPath, stubScript, 0o755); err != nil {
		t.Fatalf("write ffmpeg sidecar: %v", err)
	}

	loc, err := NewLocator(dir, nil)
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}
	got, err := loc.Resolve("ffmpeg")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != ffmpegPath {
		t.Fatalf("expected %q, got %q", ffmpegPath, got)
	}
}

func TestLocatorResolvesToolsSubdir(t *testing.T) {
	dir := t.TempDir()
	toolsDir := filepath.Join(dir, "tools")
	if err := os.MkdirAll(toolsDir, 0o755); err != nil {
		t.Fatalf("mkdir tools: %v", err)
	}
	ffprobePath := filepath.Join(toolsDir, executableName("ffprobe"))
	if err := os.WriteFile(ffprobePath, stubScript, 0o755); err != nil {
		t.Fatalf("write ffprobe: %v", err)
	}

	loc, err := NewLocator(dir, nil)
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}
	got, err := loc.Resolve("ffprobe")
	if err != nil || got != ffprobePath {
		t.Fatalf("Resolve = %q, %v; want %q", got, err, ffprobePath)
	}
}

func TestLocatorIgnoresPATH(t *testing.T) {
	pathDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(pathDir, executableName("ffmpeg")), stubScript, 0o755); err != nil {
		t.Fatalf("write PATH stub: %v", err)
	}
	t.Setenv("PATH", pathDir)

	loc, err := NewLocator(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}
	_, err = loc.Resolve("ffmpeg")
	if !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}

	status := loc.Status("ffmpeg", "Required for audio and video", false)
	if status.Available || status.Detail == "" {
		t.Fatalf("expected unavailable status with detail, got %#v", status)
	}
}

func TestLocatorOverrideTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, executableName("ffmpeg")), stubScript, 0o755); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}
	custom := filepath.Join(t.TempDir(), "custom-ffmpeg")
	if err := os.WriteFile(custom, stubScript, 0o755); err != nil {
		t.Fatalf("write override: %v", err)
	}

	loc, err := NewLocator(dir, map[string]string{"ffmpeg": custom, "ffprobe": "  "})
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}
	if got, err := loc.Resolve("ffmpeg"); err != nil || got != custom {
		t.Fatalf("Resolve = %q, %v; want override %q", got, err, custom)
	}
	if candidates := loc.Candidates("ffprobe"); len(candidates) != 2 {
		t.Fatalf("blank override should fall back to install dir, got %v", candidates)
	}
}

func TestLocatorRejectsNonExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ffmpeg"), stubScript, 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}
	loc, err := NewLocator(dir, nil)
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}
	if _, err := loc.Resolve("ffmpeg"); !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound for non-executable file, got %v", err)
	}
}

func TestNewLocatorDefaultsToInstallDir(t *testing.T) {
	loc, err := NewLocator("", nil)
	if err != nil {
		t.Fatalf("NewLocator: %v", err)
	}
	want, err := InstallDir()
	if err != nil {
		t.Fatalf("InstallDir: %v", err)
	}
	if loc.Dir() != want {
		t.Fatalf("expected install dir %q, got %q", want, loc.Dir())
	}
}

func TestToolErrorCapturesExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}
	script := filepath.Join(t.TempDir(), "failing")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho 'conversion failed' >&2\nexit 3\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	output, runErr := Run(context.Background(), script)
	if runErr == nil {
		t.Fatal("expected stub to fail")
	}
	err := ToolError("ffmpeg", output, runErr)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	code, ok := services.ExitCode(err)
	if !ok || code != 3 {
		t.Fatalf("expected exit code 3, got %d (%v)", code, ok)
	}
	if ToolError("ffmpeg", nil, nil) != nil {
		t.Fatal("nil run error must produce nil")
	}
}
