package formats

import (
	"strings"
)

// OutputSpec is one entry of a category's output menu.
type OutputSpec struct {
	// Label is what the user sees, e.g. "mp3 (Audio)".
	Label string
	// Token is the canonical format token, e.g. "mp3".
	Token string
	// AudioOnly marks an audio extraction from a video source.
	AudioOnly bool
}

const audioAnnotation = "audio"

// ParseLabel derives an OutputSpec from a display label. The annotation in
// parentheses is stripped and the leading word, lower-cased, becomes the token.
func ParseLabel(label string) OutputSpec {
	trimmed := strings.TrimSpace(label)
	spec := OutputSpec{Label: trimmed}

	head := trimmed
	if open := strings.Index(trimmed, "("); open >= 0 {
		head = trimmed[:open]
		annotation := trimmed[open+1:]
		if end := strings.Index(annotation, ")"); end >= 0 {
			annotation = annotation[:end]
		}
		spec.AudioOnly = strings.EqualFold(strings.TrimSpace(annotation), audioAnnotation)
	}

	if fields := strings.Fields(head); len(fields) > 0 {
		spec.Token = strings.ToLower(strings.TrimPrefix(fields[0], "."))
	}
	return spec
}

// CanonicalToken returns only the token part of ParseLabel.
func CanonicalToken(label string) string {
	return ParseLabel(label).Token
}
