package formats

import (
	"path/filepath"
	"strings"
)

// DefaultSuffix is inserted between the base name and the new extension.
const DefaultSuffix = "_converti"

// ConvertedPath returns <dir>/<base><suffix>.<token> for inputPath.
func ConvertedPath(inputPath, token, suffix string) string {
	return SiblingPath(inputPath, suffix+"."+strings.TrimPrefix(token, "."))
}

// SiblingPath swaps the extension of inputPath for tail, which must carry its
// own leading separator (".pdf" or "_converti.png").
func SiblingPath(inputPath, tail string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	return base + tail
}

// NormalizeExtension lower-cases ext and ensures a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
