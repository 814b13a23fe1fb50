package viewmodel

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"converti/internal/formats"
	"converti/internal/jobs"
	"converti/internal/services"
)

func TestSelectFileFillsMenu(t *testing.T) {
	m := New(formats.Default())
	if err := m.SelectFile("/home/me/holiday.MOV"); err != nil {
		t.Fatalf("SelectFile: %v", err)
	}
	if m.TypeLine() != "Type : VIDEO" {
		t.Fatalf("unexpected type line %q", m.TypeLine())
	}
	if len(m.Options) == 0 || m.Selected != m.Options[0] {
		t.Fatalf("expected first option selected, got %q of %v", m.Selected, m.Options)
	}
	if !m.SelectOutput("mp3 (Audio)") {
		t.Fatal("expected mp3 (Audio) in the video menu")
	}
	if m.SelectOutput("pdf") {
		t.Fatal("pdf must not be selectable for video")
	}

	job, err := m.Job()
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if job.Output.Token != "mp3" || !job.Output.AudioOnly || job.Category != formats.CategoryVideo {
		t.Fatalf("unexpected job %+v", job)
	}
	if job.ID == "" {
		t.Fatal("expected job id")
	}
}

func TestSelectUnsupportedFile(t *testing.T) {
	m := New(formats.Default())
	_ = m.SelectFile("/tmp/a.png")
	err := m.SelectFile("/tmp/archive.zip")
	if !errors.Is(err, services.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if m.Status != StatusUnsupported || len(m.Options) != 0 || m.Classified {
		t.Fatalf("menu not cleared: %+v", m)
	}
	if _, err := m.Job(); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestJobWithoutFile(t *testing.T) {
	m := New(formats.Default())
	_, err := m.Job()
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if n := SubmitError(err); n.Message != jobs.StatusSelect {
		t.Fatalf("unexpected notice %+v", n)
	}
}

func TestApplyEventSequence(t *testing.T) {
	m := New(formats.Default())

	m.Apply(jobs.Event{Type: jobs.EventStarted, Status: jobs.StatusWorking})
	if m.ControlsEnabled || m.Status != jobs.StatusWorking {
		t.Fatalf("unexpected running state %+v", m)
	}
	n := m.Apply(jobs.Event{Type: jobs.EventFailed, Status: jobs.StatusError, Detail: "ffmpeg not found"})
	if n.Kind != NoticeError || n.Message != "ffmpeg not found" {
		t.Fatalf("unexpected failure notice %+v", n)
	}
	if m.ControlsEnabled {
		t.Fatal("controls should stay disabled until idle")
	}
	m.Apply(jobs.Event{Type: jobs.EventIdle, ControlsEnabled: true})
	if !m.ControlsEnabled {
		t.Fatal("controls should be enabled after idle")
	}

	m.Apply(jobs.Event{Type: jobs.EventStarted, Status: jobs.StatusWorking})
	n = m.Apply(jobs.Event{Type: jobs.EventSucceeded, Status: jobs.SuccessStatus("/x/a_converti.png")})
	if n.Kind != NoticeSuccess || n.Message != MessageFinished {
		t.Fatalf("unexpected success notice %+v", n)
	}
	if m.Status != "Success : a_converti.png" {
		t.Fatalf("unexpected status %q", m.Status)
	}
}

func TestSubmitErrorBusy(t *testing.T) {
	n := SubmitError(fmt.Errorf("%w: held elsewhere", jobs.ErrBusy))
	if n.Title != "Busy" {
		t.Fatalf("unexpected notice %+v", n)
	}
	if SubmitError(nil).Kind != NoticeNone {
		t.Fatal("nil error should not produce a notice")
	}
}

func TestSharedSerialisesEventsAndSelections(t *testing.T) {
	s := NewShared(formats.Default())
	var (
		wg      sync.WaitGroup
		renders int
		last    View
	)
	render := func(v View) {
		renders++
		last = v
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 200 {
			s.Update(func(m *Model) {
				m.Apply(jobs.Event{Type: jobs.EventStarted, Status: jobs.StatusWorking})
				m.Apply(jobs.Event{Type: jobs.EventIdle, ControlsEnabled: true})
			}, render)
		}
	}()
	go func() {
		defer wg.Done()
		for i := range 200 {
			path := "/in/clip.mp4"
			if i%2 == 0 {
				path = "/in/photo.png"
			}
			s.Update(func(m *Model) {
				_ = m.SelectFile(path)
				m.SelectOutput("bmp")
			}, render)
		}
	}()
	wg.Wait()

	if renders != 400 {
		t.Fatalf("expected 400 renders, got %d", renders)
	}
	if !last.ControlsEnabled {
		t.Fatalf("controls left disabled: %+v", last)
	}
	var job jobs.Job
	var err error
	s.Update(func(m *Model) { job, err = m.Job() }, nil)
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if job.InputPath != "/in/clip.mp4" {
		t.Fatalf("expected the last selection to win, got %q", job.InputPath)
	}
}

func TestViewDoesNotAliasOptions(t *testing.T) {
	m := New(formats.Default())
	if err := m.SelectFile("/in/photo.png"); err != nil {
		t.Fatal(err)
	}
	v := m.View()
	if !v.MenuEnabled || v.Selected != m.Options[0] || v.FileLine != "photo.png" {
		t.Fatalf("unexpected view %+v", v)
	}
	v.Options[0] = "changed"
	if m.Options[0] == "changed" {
		t.Fatal("view shares the options slice with the model")
	}
	m.Apply(jobs.Event{Type: jobs.EventStarted, Status: jobs.StatusWorking})
	if v := m.View(); v.ControlsEnabled || v.MenuEnabled {
		t.Fatalf("menu should be disabled while working: %+v", v)
	}
}
