package imageconv

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"converti/internal/deps"
)

// Encoder writes img to outputPath in a format the engine cannot encode
// in-process.
type Encoder interface {
	Encode(ctx context.Context, img image.Image, outputPath string) error
}

// ToolEncoder encodes webp by piping a lossless PNG intermediate through the
// bundled ffmpeg. A positive Timeout bounds each ffmpeg run.
type ToolEncoder struct {
	Locator *deps.Locator
	Run     deps.Runner
	Quality int
	Timeout time.Duration
}

// Available reports whether ffmpeg can be located.
func (t ToolEncoder) Available() bool {
	_, err := t.Locator.Resolve("ffmpeg")
	return err == nil
}

// Encode implements Encoder. The result is written beside outputPath and
// renamed into place once ffmpeg exits cleanly.
func (t ToolEncoder) Encode(ctx context.Context, img image.Image, outputPath string) error {
	ffmpeg, err := t.Locator.Resolve("ffmpeg")
	if err != nil {
		return err
	}
	run := t.Run
	if run == nil {
		run = deps.Run
	}
	quality := t.Quality
	if quality <= 0 || quality > 100 {
		quality = defaultJPEGQuality
	}

	dir := filepath.Dir(outputPath)
	src, err := os.CreateTemp(dir, ".converti-src-*.png")
	if err != nil {
		return fmt.Errorf("create intermediate: %w", err)
	}
	srcPath := src.Name()
	defer os.Remove(srcPath)
	if err := png.Encode(src, img); err != nil {
		src.Close()
		return fmt.Errorf("write intermediate: %w", err)
	}
	if err := src.Close(); err != nil {
		return fmt.Errorf("close intermediate: %w", err)
	}

	tmpPath := srcPath + ".webp"
	defer os.Remove(tmpPath)
	args := []string{
		"-y", "-i", srcPath,
		"-c:v", "libwebp",
		"-quality", strconv.Itoa(quality),
		"-f", "webp",
		tmpPath,
	}
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	output, err := run(ctx, ffmpeg, args...)
	if err != nil {
		return deps.ToolError("ffmpeg", output, err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
