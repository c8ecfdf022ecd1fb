package progress

import (
	"bytes"
	"io"
	"strings"
	"time"

	xansi "github.com/charmbracelet/x/ansi"

	"taskprogress/internal/ansi"
	"taskprogress/internal/theme"
)

// placeholder is shown for a running task with neither a percentage nor a
// spinner.
const placeholder = "..."

// messageIndent prefixes intermediate message lines.
const messageIndent = "  "

// Status labels.
const (
	labelStarting  = "starting"
	labelDone      = "DONE"
	labelError     = "ERR"
	labelCancelled = "CANCELLED"
)

// oneLine keeps a row on a single terminal line.
var oneLine = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// row is the copy of a task taken for one frame.
type row struct {
	status      Status
	indicator   string
	description string
	message     string
}

// frameState is owned by the render goroutine.
type frameState struct {
	// prevLines is the number of terminal lines the last frame occupies.
	// The next frame starts by moving the cursor up this many lines.
	prevLines       int
	lastAdvance     time.Time
	prevAllFinished bool
}

// run is the render goroutine. It paints a frame immediately, then one per
// tick until the close condition holds or the writer fails.
func (ind *Indicators) run() {
	defer close(ind.done)

	ind.outMu.Lock()
	_, err := io.WriteString(ind.out, ansi.HideCursor)
	ind.outMu.Unlock()
	if err != nil {
		ind.fail(err)
		return
	}

	ticker := time.NewTicker(ind.tickInterval)
	defer ticker.Stop()

	st := frameState{lastAdvance: ind.now()}
	for {
		closed, err := ind.tick(&st)
		if err != nil {
			ind.fail(err)
			return
		}
		if closed {
			ind.finished.Store(true)
			ind.logger.Info("closed", "tasks", len(ind.Tasks()))
			return
		}
		<-ticker.C
	}
}

func (ind *Indicators) fail(err error) {
	ind.setErr(err)
	ind.mu.Lock()
	ind.closed = true
	ind.mu.Unlock()
	ind.finished.Store(true)
	ind.logger.Error("render failed", "error", err)
}

// tick paints one frame and reports whether the loop should stop.
//
// The frame replaces the previous one in place: move up over it, print the
// queued global messages, print the task rows, then blank any lines the
// previous frame used that the new one did not and move back up over them.
// Afterwards the cursor sits on the line just below the new frame and
// st.prevLines is that frame's line count.
func (ind *Indicators) tick(st *frameState) (bool, error) {
	now := ind.now()

	ind.mu.Lock()
	allFinished := ind.allFinishedLocked()
	closable := ind.format.AutoClose || ind.canClose
	if allFinished && st.prevAllFinished && !closable && len(ind.messages) == 0 && !ind.forceRefresh {
		// The final frame is already on screen; wait for permission to close.
		ind.mu.Unlock()
		return false, nil
	}

	advance := now.Sub(st.lastAdvance) >= ind.frameInterval
	if advance {
		st.lastAdvance = now
	}
	messages := ind.messages
	ind.messages = nil
	ind.forceRefresh = false
	rows := ind.snapshotLocked(advance)
	format, th := ind.format, ind.theme
	closing := allFinished && closable
	if closing {
		ind.closed = true
	}

	// Take the output before releasing the state so a message posted after
	// closing lands below the final frame.
	ind.outMu.Lock()
	ind.mu.Unlock()
	defer ind.outMu.Unlock()

	var b bytes.Buffer
	b.WriteString(ansi.CursorUp(st.prevLines))
	messageLines := writeMessages(&b, messages, th)
	lines := renderFrame(&b, rows, format, th, ind.width())

	if orphans := st.prevLines - messageLines - lines; orphans > 0 {
		for range orphans {
			b.WriteString(ansi.ClearLine + "\n")
		}
		b.WriteString(ansi.CursorUp(orphans))
	}
	st.prevLines = lines
	st.prevAllFinished = allFinished

	if closing {
		b.WriteString(ansi.ShowCursor)
	}

	if _, err := ind.out.Write(b.Bytes()); err != nil {
		return false, err
	}
	return closing, nil
}

// snapshotLocked copies the rows of the next frame: finished tasks first
// when they are shown, then running tasks, each bucket in registry order.
// Spinners advance one frame when advance is set. Must hold ind.mu.
func (ind *Indicators) snapshotLocked(advance bool) []row {
	rows := make([]row, 0, len(ind.tasks))
	if ind.format.ShowFinishedTasks {
		for _, t := range ind.tasks {
			if t.status.Finished() {
				rows = append(rows, row{status: t.status, description: t.description})
			}
		}
	}
	for _, t := range ind.tasks {
		if t.status.Finished() {
			continue
		}
		rows = append(rows, row{
			status:      StatusRunning,
			indicator:   t.indicatorLocked(advance),
			description: t.description,
			message:     t.message,
		})
	}
	return rows
}

// writeMessages prints global messages and returns the lines they used.
func writeMessages(b *bytes.Buffer, messages []string, th *theme.Theme) int {
	lines := 0
	for _, msg := range messages {
		for line := range strings.SplitSeq(msg, "\n") {
			b.WriteString(th.Global(strings.TrimSuffix(line, "\r")))
			b.WriteString(ansi.ClearLine + "\n")
			lines++
		}
	}
	return lines
}

// renderFrame prints rows and returns the number of lines printed. Every
// row is exactly one terminal line: newlines are flattened and, when width
// is known, the row is cut to fit.
func renderFrame(b *bytes.Buffer, rows []row, f Format, th *theme.Theme, width int) int {
	lines := 0
	for _, r := range rows {
		if r.status.Finished() {
			writeRow(b, "["+statusLabel(r.status, th)+"] "+r.description, width)
			lines++
			continue
		}

		writeRow(b, "["+r.indicator+"] "+r.description, width)
		lines++
		if f.ShowIntermediateMessages && r.message != "" {
			writeRow(b, th.Message(messageIndent+oneLine.Replace(r.message)), width)
			lines++
		}
	}
	return lines
}

func writeRow(b *bytes.Buffer, s string, width int) {
	s = oneLine.Replace(s)
	if width > 0 {
		s = xansi.Truncate(s, width, "")
	}
	b.WriteString(s)
	b.WriteString(ansi.ClearLine + "\n")
}

func statusLabel(s Status, th *theme.Theme) string {
	switch s {
	case StatusError:
		return th.Error(labelError)
	case StatusCancelled:
		return th.Cancelled(labelCancelled)
	default:
		return th.Done(labelDone)
	}
}

// Raw-mode lines.

func startLine(t *Task) string {
	return "[" + labelStarting + "] " + t.description
}

func messageLine(t *Task, msg string) string {
	return "[" + t.short + "] " + msg
}

// endLine reads t.status, so the owner's lock must be held.
func endLine(t *Task, th *theme.Theme) string {
	return "[" + statusLabel(t.status, th) + "] " + t.description
}
