package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"converti/internal/deps"
	"converti/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := formatStatus("ffmpeg", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "ffmpeg:", "[ERROR] not found")
	if got != want {
		t.Fatalf("formatStatus mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := formatStatus("Status", statusOK, "Success : a.png", true)
	if !strings.HasPrefix(got, statusStyles[statusOK].color) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestRenderStatusLineWithoutMessage(t *testing.T) {
	got := formatStatus("Images", statusInfo, "", false)
	if !strings.HasSuffix(got, "[INFO]") {
		t.Fatalf("expected bare label, got %q", got)
	}
}

func TestStatusWriterSectionUnderlinesTitle(t *testing.T) {
	var buf bytes.Buffer
	sw := newStatusWriter(&buf)
	if sw.colorize {
		t.Fatal("a buffer is never a terminal")
	}
	sw.section(" Tools ")
	sw.line("ffmpeg", statusOK, "")
	want := "Tools\n=====\n" + formatStatus("ffmpeg", statusOK, "", false) + "\n"
	if buf.String() != want {
		t.Fatalf("unexpected output\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "ffmpeg", Available: false, Detail: "not found next to converti (/opt/converti)"},
		{Name: "ffprobe", Available: true, Command: "/opt/converti/ffprobe"},
		{Name: "soffice", Available: false, Optional: true},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[ERROR] not found next to converti") {
		t.Fatalf("expected required tool error, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "[OK] Ready (/opt/converti/ffprobe)") {
		t.Fatalf("expected ready line, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "[WARN] not available") {
		t.Fatalf("expected optional tool warning, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "ffmpeg, soffice") {
		t.Fatalf("expected missing summary, got %q", lines[3])
	}
}

func TestCheckLinesSoftFailures(t *testing.T) {
	results := []preflight.Result{
		{Name: "Images", Passed: true, Detail: "built in"},
		{Name: "Documents", Passed: false, Detail: "soffice not found"},
		{Name: "Video and audio", Passed: false, Detail: "ffmpeg missing"},
	}
	lines := checkLines(results, map[string]bool{"Documents": true}, false)
	if !strings.Contains(lines[0], "[OK]") {
		t.Fatalf("expected ok line, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "[WARN]") {
		t.Fatalf("expected soft failure as warning, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "[ERROR]") {
		t.Fatalf("expected hard failure as error, got %q", lines[2])
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"Type", "Outputs"}, [][]string{{"IMAGE"}}, nil)
	if !strings.Contains(out, "IMAGE") || !strings.Contains(strings.ToUpper(out), "OUTPUTS") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty render without headers")
	}
}
