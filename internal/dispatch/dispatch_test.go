package dispatch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"converti/internal/dispatch"
	"converti/internal/document"
	"converti/internal/formats"
	"converti/internal/logging"
	"converti/internal/services"
	"converti/internal/testsupport"
)

type fakeImage struct{ tokens []string }

func (f *fakeImage) Convert(_ context.Context, in, token string) (string, error) {
	f.tokens = append(f.tokens, token)
	return in + "." + token, nil
}

type fakeMedia struct{ labels []string }

func (f *fakeMedia) Convert(_ context.Context, in, label string) (string, error) {
	f.labels = append(f.labels, label)
	return in + ".media", nil
}

type fakeDocument struct{ tokens []string }

func (f *fakeDocument) Convert(_ context.Context, in, token string) (string, bool, error) {
	f.tokens = append(f.tokens, token)
	if token != "pdf" {
		return "", false, nil
	}
	return in + ".pdf", true, nil
}

func TestEveryCategoryDispatches(t *testing.T) {
	img, media, doc := &fakeImage{}, &fakeMedia{}, &fakeDocument{}
	d := dispatch.New(img, media, doc)
	registry := formats.Default()

	for _, category := range formats.Categories() {
		outputs := registry.Outputs(category)
		if len(outputs) == 0 {
			t.Fatalf("category %s has no outputs", category)
		}
		outcome, err := d.Convert(context.Background(), dispatch.Request{
			InputPath: "in",
			Category:  category,
			Output:    outputs[0],
		})
		if err != nil {
			t.Fatalf("category %s: %v", category, err)
		}
		if !outcome.Produced || outcome.OutputPath == "" {
			t.Fatalf("category %s produced nothing", category)
		}
	}

	if len(img.tokens) != 1 || len(media.labels) != 2 || len(doc.tokens) != 1 {
		t.Fatalf("unexpected routing image=%v media=%v document=%v", img.tokens, media.labels, doc.tokens)
	}
}

func TestMediaReceivesLabelAndOthersReceiveToken(t *testing.T) {
	img, media, doc := &fakeImage{}, &fakeMedia{}, &fakeDocument{}
	d := dispatch.New(img, media, doc)

	_, _ = d.Convert(context.Background(), dispatch.Request{Category: formats.CategoryVideo, Output: formats.ParseLabel("mp3 (Audio)")})
	_, _ = d.Convert(context.Background(), dispatch.Request{Category: formats.CategoryImage, Output: formats.ParseLabel("JPG")})
	_, _ = d.Convert(context.Background(), dispatch.Request{Category: formats.CategoryDocument, Output: formats.ParseLabel("pdf")})

	if media.labels[0] != "mp3 (Audio)" {
		t.Fatalf("media engine got %q", media.labels[0])
	}
	if img.tokens[0] != "jpg" || doc.tokens[0] != "pdf" {
		t.Fatalf("unexpected tokens image=%v document=%v", img.tokens, doc.tokens)
	}
}

func TestDocumentNoneIsNotProduced(t *testing.T) {
	d := dispatch.New(&fakeImage{}, &fakeMedia{}, &fakeDocument{})
	outcome, err := d.Convert(context.Background(), dispatch.Request{
		Category: formats.CategoryDocument,
		Output:   formats.ParseLabel("odt"),
	})
	if err != nil || outcome.Produced {
		t.Fatalf("expected unproduced outcome, got %+v %v", outcome, err)
	}
}

func TestUnknownCategoryPanics(t *testing.T) {
	d := dispatch.New(&fakeImage{}, &fakeMedia{}, &fakeDocument{})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown category")
		}
	}()
	_, _ = d.Convert(context.Background(), dispatch.Request{Category: formats.Category(99)})
}

// Every output the registry offers must be producible by its engine.
func TestRegistryOutputsHaveEngines(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubTool("ffmpeg", testsupport.FFmpegStub))
	locator, err := dispatch.NewLocator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	base := dispatch.NewFromConfig(cfg, locator, logging.NewNop())
	stubDoc := document.New(document.DelegateFunc(func(_ context.Context, _, out string) error {
		return os.WriteFile(out, []byte("%PDF"), 0o644)
	}), true, nil)

	registry := formats.Default()
	for _, category := range registry.Categories() {
		for _, output := range registry.Outputs(category) {
			dir := t.TempDir()
			input := filepath.Join(dir, "sample"+registry.Inputs(category)[0])
			if category == formats.CategoryImage {
				input = filepath.Join(dir, "sample.png")
				testsupport.WritePNG(t, input, testsupport.Gradient(8, 8, true))
			} else {
				testsupport.WriteFile(t, input, 32)
			}

			d := base
			if category == formats.CategoryDocument {
				d = dispatch.New(nil, nil, stubDoc)
			}
			outcome, err := d.Convert(context.Background(), dispatch.Request{
				InputPath: input,
				Category:  category,
				Output:    output,
			})
			if err != nil {
				t.Fatalf("%s -> %q: %v", category, output.Label, err)
			}
			if !outcome.Produced {
				t.Fatalf("%s -> %q: not produced", category, output.Label)
			}
			if !strings.HasSuffix(outcome.OutputPath, "."+output.Token) {
				t.Fatalf("%s -> %q: unexpected path %q", category, output.Label, outcome.OutputPath)
			}
			if _, err := os.Stat(outcome.OutputPath); err != nil {
				t.Fatalf("%s -> %q: output missing: %v", category, output.Label, err)
			}
		}
	}
}

func TestMissingFFmpegSurfacesToolNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	locator, err := dispatch.NewLocator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	d := dispatch.NewFromConfig(cfg, locator, nil)

	input := filepath.Join(t.TempDir(), "clip.mkv")
	testsupport.WriteFile(t, input, 16)
	_, err = d.Convert(context.Background(), dispatch.Request{
		InputPath: input,
		Category:  formats.CategoryVideo,
		Output:    formats.ParseLabel("mp4"),
	})
	if !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
}
