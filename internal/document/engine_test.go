package document_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"converti/internal/deps"
	"converti/internal/document"
	"converti/internal/services"
	"converti/internal/testsupport"
)

const sofficeStub = `#!/bin/sh
outdir="$5"
base=$(basename "$6")
printf '%%PDF-1.7' > "$outdir/${base%.*}.pdf"
exit 0
`

func writeDocx(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.docx")
	testsupport.WriteFile(t, path, 128)
	return path
}

func TestConvertNonPDFReturnsNone(t *testing.T) {
	called := false
	engine := document.New(document.DelegateFunc(func(context.Context, string, string) error {
		called = true
		return nil
	}), true, nil)

	for _, token := range []string{"docx", "txt", "png", ""} {
		out, ok, err := engine.Convert(context.Background(), writeDocx(t), token)
		if err != nil || ok || out != "" {
			t.Fatalf("token %q: expected none, got %q %v %v", token, out, ok, err)
		}
	}
	if called {
		t.Fatal("delegate must not be called for non-pdf targets")
	}
}

func TestConvertPDFDelegates(t *testing.T) {
	input := writeDocx(t)
	var gotIn, gotOut string
	engine := document.New(document.DelegateFunc(func(_ context.Context, in, out string) error {
		gotIn, gotOut = in, out
		return os.WriteFile(out, []byte("%PDF"), 0o644)
	}), true, nil)

	out, ok, err := engine.Convert(context.Background(), input, "PDF")
	if err != nil || !ok {
		t.Fatalf("Convert: %v (ok=%v)", err, ok)
	}
	want := filepath.Join(filepath.Dir(input), "report.pdf")
	if out != want || gotOut != want || gotIn != input {
		t.Fatalf("unexpected paths out=%q delegate=(%q,%q)", out, gotIn, gotOut)
	}
}

func TestConvertDelegateFailure(t *testing.T) {
	engine := document.New(document.DelegateFunc(func(context.Context, string, string) error {
		return errors.New("source file could not be loaded")
	}), true, nil)

	_, ok, err := engine.Convert(context.Background(), writeDocx(t), "pdf")
	if ok || !errors.Is(err, services.ErrDocumentConversion) {
		t.Fatalf("expected document conversion error, got ok=%v err=%v", ok, err)
	}
	if services.Kind(err) != "document_conversion" {
		t.Fatalf("unexpected kind %q", services.Kind(err))
	}
}

func TestConvertRefusesExistingPDF(t *testing.T) {
	input := writeDocx(t)
	testsupport.WriteFile(t, document.OutputPath(input), 4)
	engine := document.New(document.DelegateFunc(func(context.Context, string, string) error {
		t.Fatal("delegate should not run")
		return nil
	}), false, nil)

	if _, _, err := engine.Convert(context.Background(), input, "pdf"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSofficeDelegate(t *testing.T) {
	stub := testsupport.WriteStub(t, t.TempDir(), "soffice", sofficeStub)
	input := writeDocx(t)

	var args []string
	delegate := &document.SofficeDelegate{
		Command: stub,
		Run: func(ctx context.Context, name string, a ...string) ([]byte, error) {
			args = a
			return deps.Run(ctx, name, a...)
		},
	}
	engine := document.New(delegate, true, nil)

	out, ok, err := engine.Convert(context.Background(), input, "pdf")
	if err != nil || !ok {
		t.Fatalf("Convert: %v (ok=%v)", err, ok)
	}
	if got := strings.Join(args[:4], " "); got != "--headless --convert-to pdf --outdir" {
		t.Fatalf("unexpected soffice args %v", args)
	}
	data, err := os.ReadFile(out)
	if err != nil || !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("expected pdf output, got %q (%v)", data, err)
	}
}

func TestSofficeDelegateMissingOutput(t *testing.T) {
	stub := testsupport.WriteStub(t, t.TempDir(), "soffice", "#!/bin/sh\necho 'Error: source file could not be loaded'\nexit 0\n")
	engine := document.New(&document.SofficeDelegate{Command: stub}, true, nil)

	_, _, err := engine.Convert(context.Background(), writeDocx(t), "pdf")
	if !errors.Is(err, services.ErrDocumentConversion) {
		t.Fatalf("expected ErrDocumentConversion, got %v", err)
	}
	if !strings.Contains(err.Error(), "could not be loaded") {
		t.Fatalf("expected soffice output in error, got %q", err.Error())
	}
}

func TestSofficeDelegateNonZeroExit(t *testing.T) {
	stub := testsupport.WriteStub(t, t.TempDir(), "soffice", testsupport.FailingStub("javaldx failed", 81))
	engine := document.New(&document.SofficeDelegate{Command: stub}, true, nil)

	_, _, err := engine.Convert(context.Background(), writeDocx(t), "pdf")
	if code, ok := services.ExitCode(err); !ok || code != 81 {
		t.Fatalf("expected exit code 81, got %d (%v): %v", code, ok, err)
	}
}

func TestSofficeDelegateMissingBinary(t *testing.T) {
	delegate := &document.SofficeDelegate{Command: filepath.Join(t.TempDir(), "soffice")}
	if _, err := delegate.Resolve(); !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
}
