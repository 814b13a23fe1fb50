package dispatch

import (
	"context"
	"fmt"

	"converti/internal/formats"
)

// ImageConverter converts an image to the format named by token.
type ImageConverter interface {
	Convert(ctx context.Context, inputPath, token string) (string, error)
}

// MediaConverter converts audio or video to the format named by a display
// label such as "mp3 (Audio)".
type MediaConverter interface {
	Convert(ctx context.Context, inputPath, label string) (string, error)
}

// DocumentConverter converts a document; ok is false when token is not a
// format it produces.
type DocumentConverter interface {
	Convert(ctx context.Context, inputPath, token string) (outputPath string, ok bool, err error)
}

// Request describes one conversion.
type Request struct {
	InputPath string
	Category  formats.Category
	Output    formats.OutputSpec
}

// Outcome reports what an engine produced. Produced is false only for a
// document target the document engine does not handle.
type Outcome struct {
	OutputPath string
	Produced   bool
}

// Dispatcher holds one engine per family.
type Dispatcher struct {
	image    ImageConverter
	media    MediaConverter
	document DocumentConverter
}

// New constructs a Dispatcher.
func New(image ImageConverter, media MediaConverter, document DocumentConverter) *Dispatcher {
	return &Dispatcher{image: image, media: media, document: document}
}

// Convert runs req on its engine. An unknown category is a programming error
// and panics.
func (d *Dispatcher) Convert(ctx context.Context, req Request) (Outcome, error) {
	switch req.Category {
	case formats.CategoryImage:
		path, err := d.image.Convert(ctx, req.InputPath, req.Output.Token)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{OutputPath: path, Produced: true}, nil
	case formats.CategoryVideo, formats.CategoryAudio:
		path, err := d.media.Convert(ctx, req.InputPath, req.Output.Label)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{OutputPath: path, Produced: true}, nil
	case formats.CategoryDocument:
		path, ok, err := d.document.Convert(ctx, req.InputPath, req.Output.Token)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{OutputPath: path, Produced: ok}, nil
	default:
		panic(fmt.Sprintf("dispatch: no engine for category %d", int(req.Category)))
	}
}
