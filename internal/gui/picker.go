package gui

import (
	"errors"
	"strings"

	nativedialog "github.com/sqweek/dialog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"converti/internal/formats"
)

// PickFile opens the platform file dialog filtered to the extensions in
// registry. It returns "" without error when the user cancels.
func PickFile(registry formats.Registry, title string) (string, error) {
	builder := nativedialog.File().Title(title)
	var all []string
	for _, category := range registry.Categories() {
		all = append(all, trimDots(registry.Inputs(category))...)
	}
	builder = builder.Filter("Supported files", all...)
	caser := cases.Title(language.English)
	for _, category := range registry.Categories() {
		builder = builder.Filter(caser.String(category.String()), trimDots(registry.Inputs(category))...)
	}

	path, err := builder.Load()
	if errors.Is(err, nativedialog.ErrCancelled) {
		return "", nil
	}
	return path, err
}

func trimDots(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, strings.TrimPrefix(ext, "."))
	}
	return out
}
