package testsupport

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// FFmpegStub mimics a successful ffmpeg run by writing to its last argument.
const FFmpegStub = "#!/bin/sh\nfor last; do :; done\nprintf 'converted' > \"$last\"\nexit 0\n"

// FailingStub prints to stderr and exits with the given code.
func FailingStub(message string, code int) string {
	return "#!/bin/sh\necho '" + message + "' >&2\nexit " + strconv.Itoa(code) + "\n"
}

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Gradient returns a w x h RGBA image. When translucent is set the alpha
// channel varies across the image.
func Gradient(w, h int, translucent bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(255)
			if translucent {
				a = uint8((x * 255) / max(1, w-1))
			}
			// RGBA is premultiplied, so channels stay <= alpha.
			r := uint8(int(a) * x / max(1, w))
			g := uint8(int(a) * y / max(1, h))
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: a / 2, A: a})
		}
	}
	return img
}

// WritePNG encodes img to path.
func WritePNG(t testing.TB, path string, img image.Image) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}
