package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"converti/internal/deps"
	"converti/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const ansiReset = "\x1b[0m"

// statusStyles holds the bracketed tag and terminal color for each kind.
var statusStyles = [...]struct{ tag, color string }{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const (
	statusLabelWidth = 18
	statusIndent     = "  "
)

// statusWriter prints aligned "label: [TAG] message" lines. Color is decided
// once, from whether out is a terminal.
type statusWriter struct {
	out      io.Writer
	colorize bool
}

func newStatusWriter(out io.Writer) *statusWriter {
	return &statusWriter{out: out, colorize: isTerminal(out)}
}

func (s *statusWriter) line(label string, kind statusKind, message string) {
	fmt.Fprintln(s.out, formatStatus(label, kind, message, s.colorize))
}

func (s *statusWriter) lines(lines []string) {
	for _, l := range lines {
		fmt.Fprintln(s.out, l)
	}
}

// section prints a title underlined to its own width.
func (s *statusWriter) section(title string) {
	title = strings.TrimSpace(title)
	rule := strings.Repeat("=", len(title))
	if s.colorize {
		color := statusStyles[statusInfo].color
		title, rule = color+title+ansiReset, color+rule+ansiReset
	}
	fmt.Fprintln(s.out, title)
	fmt.Fprintln(s.out, rule)
}

func formatStatus(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	var b strings.Builder
	fmt.Fprintf(&b, "%s%-*s [%s]", statusIndent, statusLabelWidth, label+":", style.tag)
	if message != "" {
		b.WriteString(" " + message)
	}
	if !colorize {
		return b.String()
	}
	return style.color + b.String() + ansiReset
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// dependencyLines renders tool statuses followed by a summary of what is
// missing. Optional tools that are absent only warn.
func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses)+1)
	var missing []string
	for _, dep := range statuses {
		if dep.Available {
			message := "Ready"
			if dep.Command != "" {
				message = fmt.Sprintf("Ready (%s)", dep.Command)
			}
			lines = append(lines, formatStatus(dep.Name, statusOK, message, colorize))
			continue
		}
		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		}
		lines = append(lines, formatStatus(dep.Name, kind, detail, colorize))
		missing = append(missing, dep.Name)
	}
	if len(missing) > 0 {
		lines = append(lines, formatStatus("Missing tools", statusWarn, strings.Join(missing, ", "), colorize))
	}
	return lines
}

// checkLines renders preflight results. Failed checks listed in soft are
// reported as warnings.
func checkLines(results []preflight.Result, soft map[string]bool, colorize bool) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		kind := statusOK
		if !r.Passed {
			kind = statusError
			if soft[r.Name] {
				kind = statusWarn
			}
		}
		lines = append(lines, formatStatus(r.Name, kind, r.Detail, colorize))
	}
	return lines
}
