package formats

import (
	"fmt"
	"strings"
)

// Category is the closed set of conversion families.
type Category int

const (
	CategoryImage Category = iota + 1
	CategoryVideo
	CategoryAudio
	CategoryDocument
)

var categoryNames = map[Category]string{
	CategoryImage:    "image",
	CategoryVideo:    "video",
	CategoryAudio:    "audio",
	CategoryDocument: "document",
}

// Categories lists every known category in menu order.
func Categories() []Category {
	return []Category{CategoryImage, CategoryVideo, CategoryAudio, CategoryDocument}
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory resolves a category from its name.
func ParseCategory(name string) (Category, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, c := range Categories() {
		if categoryNames[c] == needle {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}
