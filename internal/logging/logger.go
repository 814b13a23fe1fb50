package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"converti/internal/config"
)

const (
	logFilePrefix = "converti-"
	logFileExt    = ".log"
)

// Options describes where a logger writes and in which shape.
type Options struct {
	Level  string
	Format string
	// File is opened for append. Its directory is created when missing.
	File string
	// Echo receives a copy of every line. The CLI passes stderr for --verbose.
	Echo io.Writer
}

// New builds a logger from opts. With neither File nor Echo set, records go
// to stderr.
func New(opts Options) (*slog.Logger, error) {
	var sinks []io.Writer
	if path := strings.TrimSpace(opts.File); path != "" {
		file, err := openAppend(path)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, file)
	}
	if opts.Echo != nil {
		sinks = append(sinks, opts.Echo)
	}

	var out io.Writer = os.Stderr
	switch len(sinks) {
	case 0:
	case 1:
		out = sinks[0]
	default:
		out = io.MultiWriter(sinks...)
	}

	level := new(slog.LevelVar)
	level.Set(parseLevel(opts.Level))
	// Caller locations are only worth the noise when debugging.
	addSource := level.Level() <= slog.LevelDebug

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		return slog.New(newConsoleHandler(out, level, addSource)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:       level,
			AddSource:   addSource,
			ReplaceAttr: jsonAttr,
		})), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig opens today's log file under cfg.Paths.LogDir, echoing to
// stderr when verbose is set, and prunes files past the retention window.
func NewFromConfig(cfg *config.Config, verbose bool) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	opts := Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if verbose {
		opts.Echo = os.Stderr
	}
	if cfg.Paths.LogDir != "" {
		opts.File = DailyLogPath(cfg.Paths.LogDir, time.Now())
	}
	logger, err := New(opts)
	if err != nil {
		return nil, err
	}
	if opts.File != "" {
		if removed := PruneLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, opts.File); removed > 0 {
			logger.Debug("pruned old log files", Int("removed", removed))
		}
	}
	return logger, nil
}

// DailyLogPath returns the log file for the day containing now.
func DailyLogPath(dir string, now time.Time) string {
	return filepath.Join(dir, logFilePrefix+now.Format("20060102")+logFileExt)
}

// parseLevel accepts slog level names in any case. Anything unparseable is
// treated as info.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

// jsonAttr shortens the built-in keys and renders time in UTC so JSON lines
// line up with history timestamps.
func jsonAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		if attr.Value.Kind() == slog.KindTime {
			attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
		}
	case slog.LevelKey:
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return attr
}
