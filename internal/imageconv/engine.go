package imageconv

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"converti/internal/config"
	"converti/internal/fileutil"
	"converti/internal/formats"
	"converti/internal/logging"
	"converti/internal/services"
)

const defaultJPEGQuality = 90

// Options configures an Engine.
type Options struct {
	Suffix      string
	JPEGQuality int
	Overwrite   bool
	// WebP encodes webp targets. Nil leaves webp unsupported.
	WebP   Encoder
	Logger *slog.Logger
}

// Engine converts image files.
type Engine struct {
	suffix    string
	quality   int
	overwrite bool
	webp      Encoder
	logger    *slog.Logger
}

// New constructs an Engine.
func New(opts Options) *Engine {
	suffix := opts.Suffix
	if suffix == "" {
		suffix = formats.DefaultSuffix
	}
	quality := opts.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = defaultJPEGQuality
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		suffix:    suffix,
		quality:   quality,
		overwrite: opts.Overwrite,
		webp:      opts.WebP,
		logger:    logging.NewComponentLogger(logger, "imageconv"),
	}
}

// NewFromConfig wires an Engine from configuration. webp may be nil.
func NewFromConfig(cfg *config.Config, webp Encoder, logger *slog.Logger) *Engine {
	return New(Options{
		Suffix:      cfg.Conversion.OutputSuffix,
		JPEGQuality: cfg.Conversion.JPEGQuality,
		Overwrite:   cfg.Conversion.Overwrite,
		WebP:        webp,
		Logger:      logger,
	})
}

// Supports reports whether token can be produced right now.
func (e *Engine) Supports(token string) bool {
	token = strings.ToLower(strings.TrimPrefix(token, "."))
	if token == "webp" {
		if e.webp == nil {
			return false
		}
		if probe, ok := e.webp.(interface{ Available() bool }); ok {
			return probe.Available()
		}
		return true
	}
	_, ok := encoders[token]
	return ok
}

// Convert decodes inputPath and writes it as token next to the input. The
// returned path is only meaningful on success.
func (e *Engine) Convert(ctx context.Context, inputPath, token string) (string, error) {
	token = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(token), "."))
	if !e.Supports(token) {
		return "", services.Wrap(services.ErrUnsupportedFormat, "image", "select encoder",
			fmt.Sprintf("cannot encode images as %q", token), nil)
	}

	if err := fileutil.RequireInput(inputPath); err != nil {
		return "", err
	}
	outputPath := formats.ConvertedPath(inputPath, token, e.suffix)
	if err := fileutil.PrepareOutput(inputPath, outputPath, e.overwrite); err != nil {
		return "", err
	}

	img, err := decodeFile(inputPath)
	if err != nil {
		return "", err
	}
	if needsOpaque(token) {
		img = flatten(img)
	}

	logger := logging.WithContext(ctx, e.logger)
	logger.Debug("encoding image",
		logging.String("token", token),
		logging.Path("input", inputPath),
		logging.Int("width", img.Bounds().Dx()),
		logging.Int("height", img.Bounds().Dy()),
	)

	if token == "webp" {
		if err := e.webp.Encode(ctx, img, outputPath); err != nil {
			return "", services.Wrap(services.ErrEncode, "image", "encode webp", filepath.Base(outputPath), err)
		}
		return outputPath, nil
	}

	encode := encoders[token]
	err = fileutil.WriteAtomic(outputPath, func(w io.Writer) error {
		return encode(w, img, e.quality)
	})
	if err != nil {
		return "", services.Wrap(services.ErrEncode, "image", "encode "+token, filepath.Base(outputPath), err)
	}
	return outputPath, nil
}

func needsOpaque(token string) bool {
	switch token {
	case "jpg", "jpeg", "pdf":
		return true
	}
	return false
}
