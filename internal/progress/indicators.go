// Package progress renders a live block of task indicators (spinners and
// percentage bars) in a terminal.
//
// An Indicators value owns an ordered registry of tasks. After Show, a
// single goroutine repaints the block on every tick, moving the cursor back
// over the previous frame instead of clearing the screen. Callers mutate
// tasks from any goroutine; the registry, the task state, the global message
// queue and the format all sit behind one lock that the render goroutine
// only holds while copying state, never while writing.
//
// When the output is not an interactive terminal, nothing is redrawn: every
// event is appended as a plain line as it happens.
package progress

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"taskprogress/internal/ansi"
	"taskprogress/internal/spinner"
	"taskprogress/internal/theme"
)

// Default timing.
const (
	// DefaultTickInterval is how often the block is repainted.
	DefaultTickInterval = 100 * time.Millisecond
	// DefaultFrameInterval is how often spinners advance one frame.
	DefaultFrameInterval = 500 * time.Millisecond
)

// Indicators is the registry and renderer for one run. It cannot be
// restarted once closed; create a new value for a new run.
type Indicators struct {
	mu           sync.Mutex
	tasks        []*Task
	messages     []string
	format       Format
	theme        *theme.Theme
	forceRefresh bool
	canClose     bool
	started      bool
	closed       bool

	// outMu serializes writes to out. When both are needed, mu is taken
	// first.
	outMu sync.Mutex
	out   io.Writer

	errMu sync.Mutex
	err   error

	// Immutable after New.
	raw            bool
	interactive    bool
	interactiveSet bool
	width          func() int
	now            func() time.Time
	tickInterval   time.Duration
	frameInterval  time.Duration
	spinner        spinner.Spinner
	logger         *slog.Logger
	runID          string

	finished atomic.Bool
	done     chan struct{}
}

// Option configures an Indicators value.
type Option func(*Indicators)

// WithWriter sets the output. The default is os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(ind *Indicators) { ind.out = w }
}

// WithInteractive overrides terminal detection on the writer.
func WithInteractive(interactive bool) Option {
	return func(ind *Indicators) {
		ind.interactive = interactive
		ind.interactiveSet = true
	}
}

// WithWidth fixes the terminal width used to truncate rows. Zero disables
// truncation.
func WithWidth(columns int) Option {
	return func(ind *Indicators) { ind.width = func() int { return columns } }
}

// WithLogger sets the logger for lifecycle events. Nothing is logged by
// default.
func WithLogger(l *slog.Logger) Option {
	return func(ind *Indicators) { ind.logger = l }
}

// WithTickInterval sets how often the block is repainted.
func WithTickInterval(d time.Duration) Option {
	return func(ind *Indicators) {
		if d > 0 {
			ind.tickInterval = d
		}
	}
}

// WithFrameInterval sets how often spinners advance.
func WithFrameInterval(d time.Duration) Option {
	return func(ind *Indicators) {
		if d > 0 {
			ind.frameInterval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(ind *Indicators) { ind.now = now }
}

// WithDefaultSpinner sets the spinner given to new spinner tasks.
func WithDefaultSpinner(s spinner.Spinner) Option {
	return func(ind *Indicators) { ind.spinner = s }
}

// New creates the indicators for one run. The output mode is fixed here:
// raw output is used when requested or when the writer is not an
// interactive terminal.
func New(format Format, opts ...Option) *Indicators {
	ind := &Indicators{
		out:           os.Stdout,
		now:           time.Now,
		tickInterval:  DefaultTickInterval,
		frameInterval: DefaultFrameInterval,
		spinner:       spinner.Default,
		logger:        slog.New(slog.DiscardHandler),
		runID:         uuid.NewString(),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ind)
	}

	if !ind.interactiveSet {
		ind.interactive = ansi.IsTerminal(ind.out)
	}
	if ind.width == nil {
		out := ind.out
		ind.width = func() int { return ansi.Width(out) }
	}

	ind.raw = format.Output == OutputRaw || !ind.interactive
	if ind.raw {
		format.Output = OutputRaw
	}
	ind.format = format
	ind.theme = theme.New(format.useColor(ind.interactive))
	ind.logger = ind.logger.With("run", ind.runID)

	return ind
}

// RunID returns the random identifier attached to this run's log records.
func (ind *Indicators) RunID() string {
	return ind.runID
}

// Raw reports whether the indicators append lines instead of redrawing.
func (ind *Indicators) Raw() bool {
	return ind.raw
}

// Format returns the current format.
func (ind *Indicators) Format() Format {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	return ind.format
}

// Theme returns the styles resolved for the current format.
func (ind *Indicators) Theme() *theme.Theme {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	return ind.theme
}

// SetFormat replaces the format and forces a full redraw on the next tick.
// The output mode chosen by New is kept.
func (ind *Indicators) SetFormat(f Format) {
	requested := f.Output
	ind.mu.Lock()
	f.Output = ind.format.Output
	ind.format = f
	ind.theme = theme.New(f.useColor(ind.interactive))
	ind.forceRefresh = true
	ind.mu.Unlock()

	if requested != f.Output {
		ind.logger.Debug("output mode is fixed for the run", "requested", requested, "kept", f.Output)
	}

	ind.logger.Info("format changed",
		"messages", f.ShowIntermediateMessages,
		"finished", f.ShowFinishedTasks,
		"auto_close", f.AutoClose,
		"color", f.Color,
	)
}

// AddTask appends t to the registry and assigns its ID. Adding a task
// twice has no effect. t must have been created by this Indicators.
func (ind *Indicators) AddTask(t *Task) {
	if t.owner != ind {
		panic("progress: task was created by a different Indicators")
	}
	ind.mu.Lock()
	defer ind.mu.Unlock()
	if t.id >= 0 {
		return
	}
	t.id = len(ind.tasks)
	ind.tasks = append(ind.tasks, t)
}

// Tasks returns the registered tasks in display order.
func (ind *Indicators) Tasks() []*Task {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	out := make([]*Task, len(ind.tasks))
	copy(out, ind.tasks)
	return out
}

// Task returns the first registered task with the given description.
func (ind *Indicators) Task(name string) (*Task, error) {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	for _, t := range ind.tasks {
		if t.description == name {
			return t, nil
		}
	}
	return nil, &NoTaskError{Name: name}
}

// TaskByID returns the task registered with the given ID.
func (ind *Indicators) TaskByID(id int) (*Task, error) {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	if id < 0 || id >= len(ind.tasks) {
		return nil, &NoTaskError{ID: id, ByID: true}
	}
	return ind.tasks[id], nil
}

// AllFinished reports whether no registered task is still running. It is
// true for an empty registry.
func (ind *Indicators) AllFinished() bool {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	return ind.allFinishedLocked()
}

func (ind *Indicators) allFinishedLocked() bool {
	for _, t := range ind.tasks {
		if !t.status.Finished() {
			return false
		}
	}
	return true
}

// FinishAll finishes every registered task in display order.
func (ind *Indicators) FinishAll() {
	for _, t := range ind.Tasks() {
		t.Finish()
	}
}

// CancelAll cancels every task that is still running.
func (ind *Indicators) CancelAll() {
	for _, t := range ind.Tasks() {
		t.Cancel()
	}
}

// SetCanClose allows the render loop to stop once every task has finished.
// It is required when the format does not auto-close.
func (ind *Indicators) SetCanClose() {
	ind.mu.Lock()
	ind.canClose = true
	ind.mu.Unlock()
}

// PostMessage prints msg above the task block. In ANSI mode the message is
// queued and printed by the next tick; in raw mode it is printed at once.
func (ind *Indicators) PostMessage(msg string) {
	if ind.raw {
		ind.writeLine(msg)
		return
	}

	ind.mu.Lock()
	if ind.closed {
		// Nothing will drain the queue any more.
		ind.mu.Unlock()
		ind.writeLine(msg)
		return
	}
	ind.messages = append(ind.messages, msg)
	ind.mu.Unlock()
}

// Show starts rendering. In ANSI mode it hides the cursor and starts the
// render goroutine; in raw mode there is nothing to start. Calling Show
// more than once has no effect.
func (ind *Indicators) Show() {
	ind.mu.Lock()
	if ind.started {
		ind.mu.Unlock()
		return
	}
	ind.started = true
	ind.mu.Unlock()

	ind.logger.Info("show", "raw", ind.raw, "interactive", ind.interactive)
	if ind.raw {
		return
	}
	go ind.run()
}

// Finished reports whether rendering is over. In ANSI mode that is after
// the render loop closed; in raw mode it is AllFinished.
func (ind *Indicators) Finished() bool {
	if ind.raw {
		return ind.AllFinished()
	}
	return ind.finished.Load()
}

// Wait blocks until Finished would return true or ctx is done. It returns
// the output error that stopped rendering, if any. In ANSI mode Wait only
// returns through ctx when Show was never called.
func (ind *Indicators) Wait(ctx context.Context) error {
	if ind.raw {
		ticker := time.NewTicker(ind.tickInterval)
		defer ticker.Stop()
		for !ind.AllFinished() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		return ind.Err()
	}

	select {
	case <-ind.done:
		return ind.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the first error returned by the writer.
func (ind *Indicators) Err() error {
	ind.errMu.Lock()
	defer ind.errMu.Unlock()
	return ind.err
}

func (ind *Indicators) setErr(err error) {
	ind.errMu.Lock()
	defer ind.errMu.Unlock()
	if ind.err == nil {
		ind.err = err
	}
}

// writeLine appends one line to the output. Used by raw mode and by
// messages posted after the loop closed.
func (ind *Indicators) writeLine(line string) {
	ind.outMu.Lock()
	defer ind.outMu.Unlock()
	if _, err := io.WriteString(ind.out, line+"\n"); err != nil {
		ind.setErr(err)
		ind.logger.Error("write failed", "error", err)
	}
}
