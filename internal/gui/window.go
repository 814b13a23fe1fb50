package gui

import (
	"context"
	"errors"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"converti/internal/formats"
	"converti/internal/gui/viewmodel"
	"converti/internal/jobs"
	"converti/internal/logging"
)

const appID = "io.converti.app"

// Options configures the window.
type Options struct {
	Registry formats.Registry
	Runner   *jobs.Runner
	Logger   *slog.Logger
	// Pick overrides the native file dialog.
	Pick func() (string, error)
}

type window struct {
	opts   Options
	state  *viewmodel.Shared
	logger *slog.Logger
	win    fyne.Window

	fileLabel   *widget.Label
	typeLabel   *widget.Label
	formatMenu  *widget.Select
	browse      *widget.Button
	convert     *widget.Button
	statusLabel *widget.Label
}

// Run shows the window and blocks until it is closed. The runner must already
// be running under ctx.
func Run(ctx context.Context, opts Options) error {
	if opts.Runner == nil {
		return errors.New("gui: runner is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.Pick == nil {
		opts.Pick = func() (string, error) {
			return PickFile(opts.Registry, "Choose a file to convert")
		}
	}

	a := app.NewWithID(appID)
	w := &window{
		opts:   opts,
		state:  viewmodel.NewShared(opts.Registry),
		logger: logging.NewComponentLogger(logger, "gui"),
		win:    a.NewWindow("converti"),
	}
	w.build()
	w.state.Update(nil, w.render)

	go w.consume(ctx)

	w.win.Resize(fyne.NewSize(420, 260))
	w.win.ShowAndRun()
	return nil
}

func (w *window) build() {
	w.fileLabel = widget.NewLabel("")
	w.typeLabel = widget.NewLabel("")
	w.statusLabel = widget.NewLabel("")
	w.formatMenu = widget.NewSelect(nil, func(label string) {
		w.state.Update(func(m *viewmodel.Model) { m.SelectOutput(label) }, nil)
	})
	w.formatMenu.PlaceHolder = "Output format"
	w.browse = widget.NewButton("Browse...", w.onBrowse)
	w.convert = widget.NewButton("Convert", w.onConvert)
	w.convert.Importance = widget.HighImportance

	w.win.SetContent(container.NewVBox(
		container.NewBorder(nil, nil, nil, w.browse, w.fileLabel),
		w.typeLabel,
		w.formatMenu,
		w.convert,
		widget.NewSeparator(),
		w.statusLabel,
	))
}

func (w *window) onBrowse() {
	path, err := w.opts.Pick()
	if err != nil {
		w.logger.Warn("file picker failed", logging.Error(err))
		dialog.ShowError(err, w.win)
		return
	}
	if path == "" {
		return
	}
	w.state.Update(func(m *viewmodel.Model) {
		if err := m.SelectFile(path); err != nil {
			w.logger.Info("unsupported file selected", logging.Path("input", path))
		}
	}, w.render)
}

func (w *window) onConvert() {
	var job jobs.Job
	var err error
	w.state.Update(func(m *viewmodel.Model) { job, err = m.Job() }, nil)
	if err == nil {
		err = w.opts.Runner.Submit(context.Background(), job)
	}
	if notice := viewmodel.SubmitError(err); notice.Kind != viewmodel.NoticeNone {
		w.show(notice)
	}
}

// consume applies runner events until ctx ends. Model writes happen under the
// shared lock; popups are raised after it is released.
func (w *window) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-w.opts.Runner.Events():
			var notice viewmodel.Notice
			w.state.Update(func(m *viewmodel.Model) { notice = m.Apply(ev) }, w.render)
			w.show(notice)
		}
	}
}

// render draws v. It only touches widgets, never the model.
func (w *window) render(v viewmodel.View) {
	w.fileLabel.SetText(v.FileLine)
	w.typeLabel.SetText(v.TypeLine)
	w.formatMenu.Options = v.Options
	w.formatMenu.Selected = v.Selected
	w.formatMenu.Refresh()
	w.statusLabel.SetText(v.Status)

	for _, toggle := range []struct {
		widget  fyne.Disableable
		enabled bool
	}{
		{w.browse, v.ControlsEnabled},
		{w.convert, v.ControlsEnabled},
		{w.formatMenu, v.MenuEnabled},
	} {
		if toggle.enabled {
			toggle.widget.Enable()
		} else {
			toggle.widget.Disable()
		}
	}
}

func (w *window) show(notice viewmodel.Notice) {
	switch notice.Kind {
	case viewmodel.NoticeSuccess:
		dialog.ShowInformation(notice.Title, notice.Message, w.win)
	case viewmodel.NoticeError:
		dialog.ShowError(errors.New(notice.Message), w.win)
	}
}
