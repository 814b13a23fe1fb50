package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
)

// Entry describes one category of the registry.
type Entry struct {
	Category Category
	Inputs   []string
	Outputs  []string
}

// Registry is an immutable view over the format table. The zero value is
// empty; build one with Default or NewRegistry.
type Registry struct {
	entries []entry
	byExt   map[string]Category
}

type entry struct {
	category Category
	inputs   []string
	outputs  []OutputSpec
}

// Default returns the built-in format table.
func Default() Registry {
	reg, err := NewRegistry(defaultEntries())
	if err != nil {
		panic(fmt.Sprintf("formats: default registry invalid: %v", err))
	}
	return reg
}

func defaultEntries() []Entry {
	return []Entry{
		{
			Category: CategoryImage,
			Inputs:   []string{".jpg", ".jpeg", ".png", ".bmp", ".webp", ".tiff", ".ico"},
			Outputs:  []string{"jpg", "png", "webp", "pdf", "ico", "bmp"},
		},
		{
			Category: CategoryVideo,
			Inputs:   []string{".mp4", ".avi", ".mov", ".mkv", ".flv", ".webm"},
			Outputs:  []string{"mp4", "avi", "mkv", "mp3 (Audio)", "gif"},
		},
		{
			Category: CategoryAudio,
			Inputs:   []string{".mp3", ".wav", ".aac", ".flac", ".ogg"},
			Outputs:  []string{"mp3", "wav", "flac"},
		},
		{
			Category: CategoryDocument,
			Inputs:   []string{".docx"},
			Outputs:  []string{"pdf"},
		},
	}
}

// NewRegistry validates entries and returns the registry. Extensions must be
// disjoint across categories and every category needs at least one output.
func NewRegistry(entries []Entry) (Registry, error) {
	reg := Registry{byExt: make(map[string]Category)}
	seen := make(map[Category]struct{}, len(entries))

	for _, e := range entries {
		if !e.Category.Valid() {
			return Registry{}, fmt.Errorf("registry: invalid category %v", e.Category)
		}
		if _, dup := seen[e.Category]; dup {
			return Registry{}, fmt.Errorf("registry: category %s listed twice", e.Category)
		}
		seen[e.Category] = struct{}{}

		if len(e.Outputs) == 0 {
			return Registry{}, fmt.Errorf("registry: category %s has no outputs", e.Category)
		}

		built := entry{category: e.Category}
		for _, raw := range e.Inputs {
			ext := NormalizeExtension(raw)
			if ext == "" {
				return Registry{}, fmt.Errorf("registry: empty input extension in %s", e.Category)
			}
			if owner, taken := reg.byExt[ext]; taken {
				return Registry{}, fmt.Errorf("registry: extension %s claimed by both %s and %s", ext, owner, e.Category)
			}
			reg.byExt[ext] = e.Category
			built.inputs = append(built.inputs, ext)
		}
		for _, label := range e.Outputs {
			spec := ParseLabel(label)
			if spec.Token == "" {
				return Registry{}, fmt.Errorf("registry: output label %q in %s has no token", label, e.Category)
			}
			built.outputs = append(built.outputs, spec)
		}
		reg.entries = append(reg.entries, built)
	}

	if len(reg.entries) == 0 {
		return Registry{}, errors.New("registry: no categories")
	}
	return reg, nil
}

// Classify returns the category owning ext. The lookup is case-insensitive.
func (r Registry) Classify(ext string) (Category, bool) {
	c, ok := r.byExt[NormalizeExtension(ext)]
	return c, ok
}

// ClassifyPath classifies a file by its extension.
func (r Registry) ClassifyPath(path string) (Category, bool) {
	return r.Classify(filepath.Ext(path))
}

// Categories returns the registered categories in table order.
func (r Registry) Categories() []Category {
	out := make([]Category, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.category)
	}
	return out
}

// Inputs returns a copy of the accepted extensions for c.
func (r Registry) Inputs(c Category) []string {
	for _, e := range r.entries {
		if e.category == c {
			return slices.Clone(e.inputs)
		}
	}
	return nil
}

// Outputs returns a copy of the output menu for c.
func (r Registry) Outputs(c Category) []OutputSpec {
	for _, e := range r.entries {
		if e.category == c {
			return slices.Clone(e.outputs)
		}
	}
	return nil
}

// Labels returns the display labels of the output menu for c.
func (r Registry) Labels(c Category) []string {
	outputs := r.Outputs(c)
	labels := make([]string, 0, len(outputs))
	for _, o := range outputs {
		labels = append(labels, o.Label)
	}
	return labels
}

// LookupOutput finds the menu entry for c whose label or token matches value.
func (r Registry) LookupOutput(c Category, value string) (OutputSpec, bool) {
	wanted := ParseLabel(value)
	for _, o := range r.Outputs(c) {
		if o.Label == wanted.Label {
			return o, true
		}
	}
	for _, o := range r.Outputs(c) {
		if o.Token == wanted.Token && o.AudioOnly == wanted.AudioOnly {
			return o, true
		}
	}
	// "mp3" on a video means the audio extraction entry.
	for _, o := range r.Outputs(c) {
		if o.Token == wanted.Token {
			return o, true
		}
	}
	return OutputSpec{}, false
}
