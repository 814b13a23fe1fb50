package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"converti/internal/dispatch"
	"converti/internal/history"
	"converti/internal/logging"
	"converti/internal/notifications"
	"converti/internal/services"
)

const defaultEventBuffer = 16

// Converter runs one request to completion.
type Converter interface {
	Convert(ctx context.Context, req dispatch.Request) (dispatch.Outcome, error)
}

// Recorder persists finished jobs.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRecorder stores every finished job.
func WithRecorder(recorder Recorder) Option {
	return func(r *Runner) { r.recorder = recorder }
}

// WithNotifier publishes success and failure notifications.
func WithNotifier(notifier notifications.Service) Option {
	return func(r *Runner) {
		if notifier != nil {
			r.notifier = notifier
		}
	}
}

// WithLockFile holds an exclusive lock on path while a job runs so a second
// converti process cannot start one at the same time.
func WithLockFile(path string) Option {
	return func(r *Runner) { r.lockPath = path }
}

// WithEventBuffer sets the capacity of the event channel.
func WithEventBuffer(size int) Option {
	return func(r *Runner) {
		if size > 0 {
			r.eventBuffer = size
		}
	}
}

// Runner executes conversions one at a time.
type Runner struct {
	converter   Converter
	logger      *slog.Logger
	recorder    Recorder
	notifier    notifications.Service
	lockPath    string
	eventBuffer int

	submits chan submission
	queries chan chan State
	done    chan completion
	events  chan Event
	started atomic.Bool
	// workers counts job goroutines, including hooks that outlive the
	// completion event.
	workers sync.WaitGroup
}

type submission struct {
	job   Job
	reply chan error
}

type completion struct {
	job    Job
	result Result
}

// New constructs a Runner. Run must be started before jobs are submitted.
func New(converter Converter, opts ...Option) *Runner {
	r := &Runner{
		converter:   converter,
		logger:      logging.NewNop(),
		notifier:    notifications.Noop(),
		eventBuffer: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "jobs")
	r.submits = make(chan submission)
	r.queries = make(chan chan State)
	r.done = make(chan completion, 1)
	r.events = make(chan Event, r.eventBuffer)
	return r
}

// Events returns the channel every state change is posted to.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Run owns the runner state until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return errors.New("runner already started")
	}

	state := StateIdle
	var lock *flock.Flock
	release := func() {
		if lock == nil {
			return
		}
		if err := lock.Unlock(); err != nil {
			logging.WarnWithContext(r.logger, "release job lock", "lock_release_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "next job may report busy"),
			)
		}
		lock = nil
	}
	defer release()
	defer r.workers.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil

		case sub := <-r.submits:
			if state != StateIdle {
				sub.reply <- ErrBusy
				continue
			}
			if r.lockPath != "" {
				acquired, err := r.acquireLock()
				if err != nil {
					sub.reply <- err
					continue
				}
				lock = acquired
			}
			state = StateRunning
			r.emit(ctx, Event{
				Type:   EventStarted,
				JobID:  sub.job.ID,
				State:  state,
				Status: StatusWorking,
			})
			sub.reply <- nil
			r.workers.Add(1)
			go func(job Job) {
				defer r.workers.Done()
				r.work(ctx, job)
			}(sub.job)

		case c := <-r.done:
			release()
			result := c.result
			if result.Succeeded() {
				state = StateSucceeded
				r.emit(ctx, Event{
					Type:   EventSucceeded,
					JobID:  c.job.ID,
					State:  state,
					Status: SuccessStatus(result.OutputPath),
					Result: &result,
				})
			} else {
				state = StateFailed
				r.emit(ctx, Event{
					Type:      EventFailed,
					JobID:     c.job.ID,
					State:     state,
					Status:    StatusError,
					Detail:    result.Message,
					ErrorKind: result.ErrorKind,
					Result:    &result,
				})
			}
			state = StateIdle
			r.emit(ctx, Event{
				Type:            EventIdle,
				JobID:           c.job.ID,
				State:           state,
				ControlsEnabled: true,
			})

		case reply := <-r.queries:
			reply <- state
		}
	}
}

// Submit hands job to the runner. It fails with ErrBusy unless the runner is
// idle and returns once EventStarted has been posted.
func (r *Runner) Submit(ctx context.Context, job Job) error {
	if err := validate(job); err != nil {
		return err
	}
	reply := make(chan error, 1)
	select {
	case r.submits <- submission{job: job, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current lifecycle state.
func (r *Runner) State(ctx context.Context) (State, error) {
	reply := make(chan State, 1)
	select {
	case r.queries <- reply:
	case <-ctx.Done():
		return StateIdle, ctx.Err()
	}
	select {
	case state := <-reply:
		return state, nil
	case <-ctx.Done():
		return StateIdle, ctx.Err()
	}
}

// Execute submits job and waits for it to return to idle. It consumes the
// event channel, so it must not be combined with another event reader.
func (r *Runner) Execute(ctx context.Context, job Job) (Result, error) {
	if err := r.Submit(ctx, job); err != nil {
		return Result{JobID: job.ID}, err
	}
	result := Result{JobID: job.ID}
	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case ev := <-r.events:
			if ev.JobID != job.ID {
				continue
			}
			if ev.Result != nil {
				result = *ev.Result
			}
			if ev.Type == EventIdle {
				return result, result.Err
			}
		}
	}
}

func (r *Runner) emit(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case r.events <- ev:
	case <-ctx.Done():
	}
}

func (r *Runner) acquireLock() (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(r.lockPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "jobs", "lock", "create lock directory", err)
	}
	lock := flock.New(r.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "jobs", "lock", r.lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: another converti process holds %s", ErrBusy, r.lockPath)
	}
	return lock, nil
}

func validate(job Job) error {
	if job.ID == "" {
		return services.Wrap(services.ErrValidation, "jobs", "submit", "job has no id", nil)
	}
	if job.InputPath == "" || !job.Category.Valid() || job.Output.Token == "" {
		return services.Wrap(services.ErrValidation, "jobs", "submit", StatusSelect, nil)
	}
	return nil
}

func (r *Runner) work(ctx context.Context, job Job) {
	ctx = services.WithJobID(ctx, job.ID)
	ctx = services.WithCategory(ctx, job.Category.String())
	logger := logging.WithContext(ctx, r.logger)

	logger.Info("conversion started",
		logging.Path("input", job.InputPath),
		logging.String("output", job.Output.Label),
	)
	result := r.execute(ctx, job, logger)
	logOutcome(job, result, logger)

	// The outcome is posted before history and ntfy run so the status line
	// and controls do not wait on a slow notification endpoint.
	select {
	case r.done <- completion{job: job, result: result}:
	case <-ctx.Done():
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("post-conversion hook panicked", logging.Any("panic", rec))
		}
	}()
	// Shutdown must not drop the history row of a job that already finished.
	r.runHooks(context.WithoutCancel(ctx), job, result, logger)
}

func (r *Runner) execute(ctx context.Context, job Job, logger *slog.Logger) (result Result) {
	result = Result{JobID: job.ID, StartedAt: time.Now()}
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("conversion panicked",
				logging.Any("panic", rec),
				logging.String("stack", string(debug.Stack())),
			)
			result = failed(result, fmt.Errorf("conversion panicked: %v", rec))
		}
		result.FinishedAt = time.Now()
	}()

	outcome, err := r.converter.Convert(ctx, dispatch.Request{
		InputPath: job.InputPath,
		Category:  job.Category,
		Output:    job.Output,
	})
	if err == nil && !outcome.Produced {
		err = services.Wrap(services.ErrUnsupportedFormat, job.Category.String(), "convert",
			fmt.Sprintf("cannot produce %q", job.Output.Label), nil)
	}
	if err != nil {
		return failed(result, err)
	}
	result.OutputPath = outcome.OutputPath
	return result
}

func failed(result Result, err error) Result {
	result.Err = err
	result.ErrorKind = services.Kind(err)
	result.Message = err.Error()
	return result
}

func logOutcome(job Job, result Result, logger *slog.Logger) {
	if result.Succeeded() {
		logger.Info("conversion succeeded",
			logging.Path("output", result.OutputPath),
			logging.Duration("elapsed", result.Duration()),
		)
	} else {
		attrs := append(logging.Failure(result.Err),
			logging.Path("input", job.InputPath),
			logging.String(logging.FieldErrorHint, hintFor(result.ErrorKind)),
		)
		logging.ErrorWithContext(logger, "conversion failed", "conversion_failed", attrs...)
	}
}

// runHooks records history and sends the ntfy message. Hook failures never
// change the result.
func (r *Runner) runHooks(ctx context.Context, job Job, result Result, logger *slog.Logger) {
	if r.recorder != nil {
		if err := r.recorder.Record(ctx, entryFor(job, result)); err != nil {
			logging.WarnWithContext(logger, "record conversion history", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "conversion missing from history"),
			)
		}
	}

	var notifyErr error
	if result.Succeeded() {
		notifyErr = r.notifier.NotifyConversionSucceeded(ctx, job.InputPath, result.OutputPath, result.Duration())
	} else {
		notifyErr = r.notifier.NotifyConversionFailed(ctx, job.InputPath, result.Err)
	}
	if notifyErr != nil {
		logging.WarnWithContext(logger, "send notification", "notification_failed",
			logging.Error(notifyErr),
			logging.String(logging.FieldImpact, "no push notification for this conversion"),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
		)
	}
}

func entryFor(job Job, result Result) history.Entry {
	entry := history.Entry{
		ID:          job.ID,
		InputPath:   job.InputPath,
		Category:    job.Category.String(),
		OutputLabel: job.Output.Label,
		OutputPath:  result.OutputPath,
		Status:      history.StatusSucceeded,
		StartedAt:   result.StartedAt,
		FinishedAt:  result.FinishedAt,
		Duration:    result.Duration(),
	}
	if !result.Succeeded() {
		entry.Status = history.StatusFailed
		entry.ErrorKind = result.ErrorKind
		entry.ErrorMessage = result.Message
	}
	return entry
}

func hintFor(kind string) string {
	switch kind {
	case "tool_not_found":
		return "place ffmpeg next to the converti executable or set tools.dir"
	case "unsupported_format":
		return "pick another output format"
	case "decode":
		return "the input file may be corrupt or mislabelled"
	case "not_found":
		return "check the input path"
	case "validation":
		return "choose a different output or enable conversion.overwrite"
	case "document_conversion":
		return "check that LibreOffice (soffice) is installed"
	default:
		return "check logs for details"
	}
}
