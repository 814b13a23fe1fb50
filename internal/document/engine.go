package document

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"converti/internal/fileutil"
	"converti/internal/formats"
	"converti/internal/logging"
	"converti/internal/services"
)

const pdfToken = "pdf"

// Delegate performs the actual document conversion.
type Delegate interface {
	Convert(ctx context.Context, inputPath, outputPath string) error
}

// DelegateFunc adapts a function to Delegate.
type DelegateFunc func(ctx context.Context, inputPath, outputPath string) error

// Convert implements Delegate.
func (f DelegateFunc) Convert(ctx context.Context, inputPath, outputPath string) error {
	return f(ctx, inputPath, outputPath)
}

// Engine routes pdf requests to a Delegate.
type Engine struct {
	delegate  Delegate
	overwrite bool
	logger    *slog.Logger
}

// New constructs an Engine.
func New(delegate Delegate, overwrite bool, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		delegate:  delegate,
		overwrite: overwrite,
		logger:    logging.NewComponentLogger(logger, "document"),
	}
}

// OutputPath returns <dir>/<base>.pdf for inputPath. Document output carries
// no suffix.
func OutputPath(inputPath string) string {
	return formats.SiblingPath(inputPath, "."+pdfToken)
}

// Convert produces a pdf from inputPath when token is pdf. For any other token
// it returns ok=false without touching the delegate.
func (e *Engine) Convert(ctx context.Context, inputPath, token string) (outputPath string, ok bool, err error) {
	if !strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(token), "."), pdfToken) {
		return "", false, nil
	}
	if e.delegate == nil {
		return "", false, services.Wrap(services.ErrConfiguration, "document", "delegate", "no document converter configured", nil)
	}
	if err := fileutil.RequireInput(inputPath); err != nil {
		return "", false, err
	}
	outputPath = OutputPath(inputPath)
	if err := fileutil.PrepareOutput(inputPath, outputPath, e.overwrite); err != nil {
		return "", false, err
	}

	logging.WithContext(ctx, e.logger).Info("converting document",
		logging.Path("input", inputPath),
		logging.Path("output", outputPath),
	)
	if err := e.delegate.Convert(ctx, inputPath, outputPath); err != nil {
		return "", false, services.Wrap(services.ErrDocumentConversion, "document", "convert",
			fmt.Sprintf("%s to pdf", filepath.Base(inputPath)), err)
	}
	return outputPath, true, nil
}
