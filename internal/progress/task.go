package progress

import (
	"fmt"
	"math/bits"
	"time"

	"taskprogress/internal/spinner"
)

// Kind identifies the payload a task carries.
type Kind int

const (
	// KindSpinner tasks show an animation instead of a percentage.
	KindSpinner Kind = iota
	// KindBar tasks count towards a total and show a percentage.
	KindBar
)

func (k Kind) String() string {
	switch k {
	case KindSpinner:
		return "spinner"
	case KindBar:
		return "bar"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Status is the position of a task in its lifecycle. A task starts running
// and moves to exactly one of the finished states, never back.
type Status int

const (
	StatusRunning Status = iota
	StatusDone
	StatusError
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusDone:
		return "finished"
	case StatusError:
		return "error"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Finished reports whether s is a terminal state.
func (s Status) Finished() bool {
	return s != StatusRunning
}

// Task is one tracked unit of work. It is created bound to an Indicators
// value and every mutation goes through that value's lock, so a task may be
// updated from any goroutine while it is being rendered.
type Task struct {
	owner *Indicators

	// Immutable after construction.
	kind        Kind
	description string
	short       string
	startedAt   time.Time

	// Guarded by owner.mu.
	id      int
	message string
	status  Status
	endedAt time.Time

	// Spinner payload, guarded by owner.mu.
	spin spinner.Spinner
	iter *spinner.Iterator

	// Bar payload, guarded by owner.mu.
	total int
	count int
}

// TaskOption configures a task at construction.
type TaskOption func(*Task)

// WithMessage sets the initial intermediate message.
func WithMessage(msg string) TaskOption {
	return func(t *Task) { t.message = msg }
}

// WithShortDescription sets the label used to prefix raw-mode message lines.
func WithShortDescription(short string) TaskOption {
	return func(t *Task) { t.short = short }
}

// WithSpinner replaces the spinner of a spinner task. Passing the zero
// Spinner makes the task show a static placeholder. Bar tasks ignore it.
func WithSpinner(s spinner.Spinner) TaskOption {
	return func(t *Task) {
		if t.kind == KindSpinner {
			t.spin = s
		}
	}
}

// WithStart sets the initial count of a bar task. Spinner tasks ignore it.
func WithStart(count int) TaskOption {
	return func(t *Task) {
		if t.kind == KindBar {
			t.count = count
		}
	}
}

// NewSpinnerTask creates a task that animates until it is finished. The task
// is not displayed until it is passed to AddTask. In raw mode a starting
// line is printed immediately.
func (ind *Indicators) NewSpinnerTask(description string, opts ...TaskOption) *Task {
	t := ind.newTask(KindSpinner, description)
	t.spin = ind.spinner
	return ind.initTask(t, opts)
}

// NewBarTask creates a task that finishes once total units of work have
// been reported with Advance. The task is not displayed until it is passed
// to AddTask. In raw mode a starting line is printed immediately.
func (ind *Indicators) NewBarTask(description string, total int, opts ...TaskOption) *Task {
	t := ind.newTask(KindBar, description)
	t.total = total
	return ind.initTask(t, opts)
}

func (ind *Indicators) newTask(kind Kind, description string) *Task {
	return &Task{
		owner:       ind,
		kind:        kind,
		description: description,
		startedAt:   ind.now(),
		id:          -1,
	}
}

func (ind *Indicators) initTask(t *Task, opts []TaskOption) *Task {
	for _, opt := range opts {
		opt(t)
	}
	if t.short == "" {
		t.short = t.description
	}

	if t.kind == KindBar && t.count < 0 {
		t.count = 0
	}
	// A bar created at or past its total is already done.
	if t.kind == KindBar && t.count >= t.total {
		t.status = StatusDone
		t.endedAt = t.startedAt
	}

	if !ind.raw {
		return t
	}

	// Raw mode never stores messages.
	msg := t.message
	t.message = ""
	ind.writeLine(startLine(t))
	if msg != "" {
		ind.writeLine(messageLine(t, msg))
	}
	if t.status.Finished() {
		ind.mu.Lock()
		line := endLine(t, ind.theme)
		ind.mu.Unlock()
		ind.writeLine(line)
	}
	return t
}

// Kind returns the task's kind.
func (t *Task) Kind() Kind { return t.kind }

// Description returns the text shown next to the indicator.
func (t *Task) Description() string { return t.description }

// ShortDescription returns the label used in raw-mode message lines.
func (t *Task) ShortDescription() string { return t.short }

// StartedAt returns the construction time.
func (t *Task) StartedAt() time.Time { return t.startedAt }

// ID returns the task's registry index, or -1 before AddTask.
func (t *Task) ID() int {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.id
}

// Message returns the intermediate message. The empty string means none.
func (t *Task) Message() string {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.message
}

// Progress returns the completion percentage of a bar task, capped at 100.
// The boolean is false for spinner tasks.
func (t *Task) Progress() (int, bool) {
	if t.kind != KindBar {
		return 0, false
	}
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.percentLocked(), true
}

// Spinner returns the task's spinner. The boolean is false for bar tasks
// and for spinner tasks created with the zero Spinner.
func (t *Task) Spinner() (spinner.Spinner, bool) {
	if t.kind != KindSpinner || t.spin.IsZero() {
		return spinner.Spinner{}, false
	}
	return t.spin, true
}

// Status returns the current lifecycle state.
func (t *Task) Status() Status {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.status
}

// Finished reports whether the task reached any terminal state.
func (t *Task) Finished() bool {
	return t.Status().Finished()
}

// IsError reports whether the task finished with SetError.
func (t *Task) IsError() bool {
	return t.Status() == StatusError
}

// IsCancelled reports whether the task finished with Cancel.
func (t *Task) IsCancelled() bool {
	return t.Status() == StatusCancelled
}

// EndedAt returns when the task finished, or the zero time while running.
func (t *Task) EndedAt() time.Time {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.endedAt
}

// SetMessage replaces the intermediate message; an empty string clears it.
// In raw mode the message is printed at once instead of being stored.
func (t *Task) SetMessage(msg string) {
	if t.owner.raw {
		t.owner.writeLine(messageLine(t, msg))
		return
	}
	t.owner.mu.Lock()
	t.message = msg
	t.owner.mu.Unlock()
}

// Advance adds n units of work to a bar task. Reaching the total finishes
// the task. It has no effect on spinner tasks or finished tasks.
func (t *Task) Advance(n int) {
	if t.kind != KindBar {
		return
	}

	ind := t.owner
	ind.mu.Lock()
	if t.status.Finished() {
		ind.mu.Unlock()
		return
	}
	if n >= t.total-t.count {
		t.count = t.total
	} else {
		t.count = max(t.count+n, 0)
	}
	if t.count < t.total {
		ind.mu.Unlock()
		return
	}
	t.finishLocked(StatusDone)
	line := endLine(t, ind.theme)
	ind.mu.Unlock()

	if ind.raw {
		ind.writeLine(line)
	}
}

// Step is Advance(1).
func (t *Task) Step() {
	t.Advance(1)
}

// Finish marks the task done. A bar task jumps to its total. Finishing a
// task that already finished, in any state, does nothing.
func (t *Task) Finish() {
	t.complete(StatusDone)
}

// SetError marks the task as failed, unless it already finished.
func (t *Task) SetError() {
	t.complete(StatusError)
}

// Cancel marks the task as cancelled, unless it already finished.
func (t *Task) Cancel() {
	t.complete(StatusCancelled)
}

func (t *Task) complete(status Status) {
	ind := t.owner
	ind.mu.Lock()
	if t.status.Finished() {
		ind.mu.Unlock()
		return
	}
	t.finishLocked(status)
	line := endLine(t, ind.theme)
	ind.mu.Unlock()

	if ind.raw {
		ind.writeLine(line)
	}
}

func (t *Task) finishLocked(status Status) {
	if t.kind == KindBar {
		t.count = t.total
	}
	t.status = status
	t.endedAt = t.owner.now()
}

func (t *Task) percentLocked() int {
	if t.total <= 0 {
		return 100
	}
	if t.count <= 0 {
		return 0
	}
	if t.count >= t.total {
		return 100
	}
	// count < total, so the high word stays below total and Div64 cannot
	// overflow.
	hi, lo := bits.Mul64(uint64(t.count), 100)
	q, _ := bits.Div64(hi, lo, uint64(t.total))
	return int(q)
}

// indicatorLocked returns the left column of a running task: a zero-padded
// percentage, a spinner frame, or a placeholder.
func (t *Task) indicatorLocked(advance bool) string {
	switch {
	case t.kind == KindBar:
		return fmt.Sprintf("%03d", t.percentLocked())
	case !t.spin.IsZero():
		if t.iter == nil {
			t.iter = t.spin.Iterator()
		}
		if advance {
			return t.iter.Next()
		}
		return t.iter.Current()
	default:
		return placeholder
	}
}

// String returns a debug form such as "Task(Building Main, status: running)".
func (t *Task) String() string {
	return fmt.Sprintf("Task(%s, status: %s)", t.description, t.Status())
}
