package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"converti/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("USERPROFILE", tempHome)
	t.Setenv("CONVERTI_TOOLS_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "converti")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Tools.Dir != "" {
		t.Fatalf("expected empty tools dir by default, got %q", cfg.Tools.Dir)
	}
	if cfg.Tools.Soffice != "soffice" {
		t.Fatalf("unexpected soffice command: %q", cfg.Tools.Soffice)
	}
	if cfg.Conversion.OutputSuffix != "_converti" {
		t.Fatalf("unexpected output suffix: %q", cfg.Conversion.OutputSuffix)
	}
	if !cfg.Conversion.Overwrite {
		t.Fatal("expected overwrite enabled by default")
	}
	if cfg.ToolTimeout() != 0 {
		t.Fatalf("expected no tool timeout by default, got %s", cfg.ToolTimeout())
	}
	if cfg.HistoryPath() != filepath.Join(wantData, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("USERPROFILE", tempHome)
	t.Setenv("CONVERTI_TOOLS_DIR", "")

	configPath := filepath.Join(t.TempDir(), "custom.toml")
	content := []byte(`[paths]
data_dir = "~/converti-data"
log_dir = "~/converti-logs"

[tools]
dir = "~/bundle"
soffice = "~/apps/soffice"

[conversion]
output_suffix = "_out"
overwrite = false
jpeg_quality = 75
tool_timeout_seconds = 120

[logging]
format = "JSON"
level = "Debug"
`)
	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "converti-data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Tools.Dir != filepath.Join(tempHome, "bundle") {
		t.Fatalf("unexpected tools dir: %q", cfg.Tools.Dir)
	}
	if cfg.Tools.Soffice != filepath.Join(tempHome, "apps", "soffice") {
		t.Fatalf("expected soffice path to be expanded, got %q", cfg.Tools.Soffice)
	}
	if cfg.Conversion.OutputSuffix != "_out" || cfg.Conversion.Overwrite {
		t.Fatalf("unexpected conversion section: %+v", cfg.Conversion)
	}
	if cfg.Conversion.JPEGQuality != 75 {
		t.Fatalf("unexpected jpeg quality: %d", cfg.Conversion.JPEGQuality)
	}
	if cfg.ToolTimeout() != 2*time.Minute {
		t.Fatalf("unexpected tool timeout: %s", cfg.ToolTimeout())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging values to be lower-cased, got %+v", cfg.Logging)
	}
}

func TestToolsDirFromEnvironment(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("USERPROFILE", tempHome)
	bundle := filepath.Join(t.TempDir(), "bundle")
	t.Setenv("CONVERTI_TOOLS_DIR", bundle)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Tools.Dir != bundle {
		t.Fatalf("expected tools dir from env, got %q", cfg.Tools.Dir)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path, false); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if err := config.CreateSample(path, false); !errors.Is(err, config.ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists on second write, got %v", err)
	}
	if err := config.CreateSample(path, true); err != nil {
		t.Fatalf("CreateSample with overwrite failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "output_suffix") {
		t.Fatalf("sample config missing conversion section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	defaults := config.Default()
	if cfg.Conversion != defaults.Conversion {
		t.Fatalf("sample conversion section drifted from defaults: %+v vs %+v", cfg.Conversion, defaults.Conversion)
	}

	if runtime.GOOS != "windows" {
		if !strings.Contains(cfg.Paths.DataDir, "converti") {
			t.Fatalf("expected data dir to contain converti, got %q", cfg.Paths.DataDir)
		}
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Conversion.JPEGQuality = 101
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for jpeg quality above 100")
	}

	cfg = config.Default()
	cfg.Conversion.OutputSuffix = "../escape"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for suffix with separators")
	}

	cfg = config.Default()
	cfg.Conversion.ToolTimeoutSeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative timeout")
	}

	cfg = config.Default()
	cfg.Notifications.NtfyTopic = "my-topic"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for ntfy topic without scheme")
	}

	cfg = config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported log format")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate, got %v", err)
	}
}
