package transcode

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"converti/internal/config"
	"converti/internal/deps"
	"converti/internal/fileutil"
	"converti/internal/formats"
	"converti/internal/logging"
	"converti/internal/services"
)

const toolName = "ffmpeg"

// Options configures an Engine.
type Options struct {
	Locator   *deps.Locator
	Run       deps.Runner
	Suffix    string
	Overwrite bool
	// Timeout bounds a single ffmpeg run. Zero means no limit.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Engine converts media files through ffmpeg.
type Engine struct {
	locator   *deps.Locator
	run       deps.Runner
	suffix    string
	overwrite bool
	timeout   time.Duration
	logger    *slog.Logger
}

// New constructs an Engine.
func New(opts Options) *Engine {
	run := opts.Run
	if run == nil {
		run = deps.Run
	}
	suffix := opts.Suffix
	if suffix == "" {
		suffix = formats.DefaultSuffix
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		locator:   opts.Locator,
		run:       run,
		suffix:    suffix,
		overwrite: opts.Overwrite,
		timeout:   opts.Timeout,
		logger:    logging.NewComponentLogger(logger, "transcode"),
	}
}

// NewFromConfig wires an Engine from configuration.
func NewFromConfig(cfg *config.Config, locator *deps.Locator, logger *slog.Logger) *Engine {
	return New(Options{
		Locator:   locator,
		Suffix:    cfg.Conversion.OutputSuffix,
		Overwrite: cfg.Conversion.Overwrite,
		Timeout:   cfg.ToolTimeout(),
		Logger:    logger,
	})
}

// Convert runs ffmpeg to produce the target named by label next to inputPath
// and returns the output path.
func (e *Engine) Convert(ctx context.Context, inputPath, label string) (string, error) {
	spec := formats.ParseLabel(label)
	if spec.Token == "" {
		return "", services.Wrap(services.ErrUnsupportedFormat, "media", "parse label",
			fmt.Sprintf("no output format in %q", label), nil)
	}

	ffmpeg, err := e.locator.Resolve(toolName)
	if err != nil {
		return "", err
	}
	if err := fileutil.RequireInput(inputPath); err != nil {
		return "", err
	}
	outputPath := formats.ConvertedPath(inputPath, spec.Token, e.suffix)
	if err := fileutil.PrepareOutput(inputPath, outputPath, e.overwrite); err != nil {
		return "", err
	}

	logger := logging.WithContext(ctx, e.logger)
	if _, explicit := CodecFlags(spec.Token); !explicit {
		logger.Debug("no codec mapping for target; ffmpeg infers codecs from the extension",
			logging.String("token", spec.Token))
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	args := BuildArgs(inputPath, outputPath, spec)
	logger.Info("running ffmpeg",
		logging.String("token", spec.Token),
		logging.Path("output", outputPath),
		logging.String("args", strings.Join(args, " ")),
	)
	started := time.Now()
	output, err := e.run(ctx, ffmpeg, args...)
	if err != nil {
		return "", deps.ToolError(toolName, output, err)
	}
	logger.Debug("ffmpeg finished", logging.Duration("elapsed", time.Since(started)))
	return outputPath, nil
}
