// Package viewmodel holds the presentation state behind the desktop window so
// it can be exercised without a display.
package viewmodel

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"converti/internal/formats"
	"converti/internal/jobs"
	"converti/internal/services"
)

const (
	StatusReady       = "Select a file to convert"
	StatusUnsupported = "File format not supported"
	MessageFinished   = "Conversion finished!"
)

// NoticeKind tells the window which popup, if any, to show.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is a popup request produced by Apply.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
}

// Model is the window state.
type Model struct {
	registry formats.Registry
	upper    cases.Caser

	InputPath       string
	Category        formats.Category
	Classified      bool
	Options         []string
	Selected        string
	Status          string
	ControlsEnabled bool
}

// New returns an idle model over registry.
func New(registry formats.Registry) *Model {
	return &Model{
		registry:        registry,
		upper:           cases.Upper(language.Und),
		Status:          StatusReady,
		ControlsEnabled: true,
	}
}

// FileLine is the label shown for the chosen file.
func (m *Model) FileLine() string {
	if m.InputPath == "" {
		return "No file selected"
	}
	return filepath.Base(m.InputPath)
}

// TypeLine renders the detected category, e.g. "Type : IMAGE".
func (m *Model) TypeLine() string {
	if !m.Classified {
		return "Type : -"
	}
	return "Type : " + m.upper.String(m.Category.String())
}

// SelectFile classifies path and resets the output menu to the category's
// outputs with the first one selected. An unrecognised extension clears the
// menu and returns an unsupported-format error.
func (m *Model) SelectFile(path string) error {
	m.InputPath = path
	m.Options = nil
	m.Selected = ""
	m.Classified = false

	category, ok := m.registry.ClassifyPath(path)
	if !ok {
		m.Status = StatusUnsupported
		return services.Wrap(services.ErrUnsupportedFormat, "classify", "", fmt.Sprintf("%s is not a supported file", filepath.Base(path)), nil)
	}
	m.Category = category
	m.Classified = true
	m.Options = m.registry.Labels(category)
	if len(m.Options) > 0 {
		m.Selected = m.Options[0]
	}
	m.Status = StatusReady
	return nil
}

// SelectOutput picks label if it belongs to the current menu.
func (m *Model) SelectOutput(label string) bool {
	for _, option := range m.Options {
		if option == label {
			m.Selected = label
			return true
		}
	}
	return false
}

// Job builds the job for the current selection.
func (m *Model) Job() (jobs.Job, error) {
	if m.InputPath == "" || !m.Classified || m.Selected == "" {
		return jobs.Job{}, services.Wrap(services.ErrValidation, "select", "", jobs.StatusSelect, nil)
	}
	output, ok := m.registry.LookupOutput(m.Category, m.Selected)
	if !ok {
		return jobs.Job{}, services.Wrap(services.ErrValidation, "select", "", jobs.StatusSelect, nil)
	}
	return jobs.NewJob(m.InputPath, m.Category, output), nil
}

// Apply folds a runner event into the model and reports any popup to show.
func (m *Model) Apply(ev jobs.Event) Notice {
	switch ev.Type {
	case jobs.EventStarted:
		m.Status = ev.Status
		m.ControlsEnabled = false
	case jobs.EventSucceeded:
		m.Status = ev.Status
		return Notice{Kind: NoticeSuccess, Title: "Success", Message: MessageFinished}
	case jobs.EventFailed:
		m.Status = ev.Status
		message := ev.Detail
		if message == "" {
			message = "conversion failed"
		}
		return Notice{Kind: NoticeError, Title: jobs.StatusError, Message: message}
	case jobs.EventIdle:
		m.ControlsEnabled = true
	}
	return Notice{}
}

// SubmitError converts a Submit failure into a popup.
func SubmitError(err error) Notice {
	if err == nil {
		return Notice{}
	}
	if errors.Is(err, jobs.ErrBusy) {
		return Notice{Kind: NoticeError, Title: "Busy", Message: err.Error()}
	}
	if errors.Is(err, services.ErrValidation) {
		return Notice{Kind: NoticeError, Title: "Warning", Message: jobs.StatusSelect}
	}
	return Notice{Kind: NoticeError, Title: jobs.StatusError, Message: err.Error()}
}

// View is a detached copy of what the window draws.
type View struct {
	FileLine        string
	TypeLine        string
	Options         []string
	Selected        string
	Status          string
	ControlsEnabled bool
	MenuEnabled     bool
}

// View snapshots the model for rendering.
func (m *Model) View() View {
	return View{
		FileLine:        m.FileLine(),
		TypeLine:        m.TypeLine(),
		Options:         slices.Clone(m.Options),
		Selected:        m.Selected,
		Status:          m.Status,
		ControlsEnabled: m.ControlsEnabled,
		MenuEnabled:     m.ControlsEnabled && len(m.Options) > 0,
	}
}

// Shared serialises access to a Model that is written both by UI callbacks
// and by the goroutine draining runner events.
type Shared struct {
	mu    sync.Mutex
	model *Model
}

// NewShared wraps a fresh model over registry.
func NewShared(registry formats.Registry) *Shared {
	return &Shared{model: New(registry)}
}

// Update runs fn against the model and then hands the resulting view to
// render, both under the lock, so renders are applied in update order. render
// may be nil. render must not call back into Shared.
func (s *Shared) Update(fn func(*Model), render func(View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		fn(s.model)
	}
	if render != nil {
		render(s.model.View())
	}
}
