package dispatch

import (
	"log/slog"

	"converti/internal/config"
	"converti/internal/deps"
	"converti/internal/document"
	"converti/internal/imageconv"
	"converti/internal/transcode"
)

// NewLocator builds the tool locator described by cfg.
func NewLocator(cfg *config.Config) (*deps.Locator, error) {
	return deps.NewLocator(cfg.Tools.Dir, map[string]string{
		"ffmpeg":  cfg.Tools.FFmpeg,
		"ffprobe": cfg.Tools.FFprobe,
	})
}

// NewFromConfig wires the production engines.
func NewFromConfig(cfg *config.Config, locator *deps.Locator, logger *slog.Logger) *Dispatcher {
	webp := imageconv.ToolEncoder{
		Locator: locator,
		Quality: cfg.Conversion.JPEGQuality,
		Timeout: cfg.ToolTimeout(),
	}
	return New(
		imageconv.NewFromConfig(cfg, webp, logger),
		transcode.NewFromConfig(cfg, locator, logger),
		document.New(document.NewSofficeDelegate(cfg, locator), cfg.Conversion.Overwrite, logger),
	)
}
