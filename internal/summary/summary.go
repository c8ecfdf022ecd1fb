// Package summary renders the end-of-run report: one table row per task
// with its final state and how long it ran.
package summary

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"taskprogress/internal/progress"
	"taskprogress/internal/theme"
)

// Options configures Write.
type Options struct {
	// Indent is the prefix added to each line.
	Indent string
	// Theme styles the status column. Nil means no styling.
	Theme *theme.Theme
	// Now is the reference time for tasks still running.
	Now time.Time
	// MaxDescription caps the task column width. Zero means no cap.
	MaxDescription int
}

// Write prints the report for tasks to w.
func Write(w io.Writer, tasks []progress.TaskInfo, opts Options) error {
	th := opts.Theme
	if th == nil {
		th = theme.New(false)
	}

	tbl := NewTable(
		Column{Header: "#", Align: AlignRight},
		Column{Header: "Task", MaxWidth: opts.MaxDescription},
		Column{Header: "Status", MinWidth: len("CANCELLED")},
		Column{Header: "Progress", Align: AlignRight},
		Column{Header: "Time", Align: AlignRight},
	)
	for _, info := range tasks {
		tbl.AddRow(
			fmt.Sprint(info.ID),
			info.Description,
			statusCell(info, th),
			progressCell(info),
			Duration(info.Duration(opts.Now)),
		)
	}

	var b strings.Builder
	for _, line := range tbl.Lines() {
		b.WriteString(opts.Indent)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(opts.Indent)
	b.WriteString(Counts(tasks))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

// Counts returns a one-line tally such as "3 tasks: 2 done, 1 failed".
func Counts(tasks []progress.TaskInfo) string {
	var done, failed, cancelled, running int
	for _, info := range tasks {
		switch info.Status {
		case progress.StatusDone.String():
			done++
		case progress.StatusError.String():
			failed++
		case progress.StatusCancelled.String():
			cancelled++
		default:
			running++
		}
	}

	parts := []string{}
	for _, p := range []struct {
		n     int
		label string
	}{
		{done, "done"},
		{failed, "failed"},
		{cancelled, "cancelled"},
		{running, "running"},
	} {
		if p.n > 0 {
			parts = append(parts, humanize.Comma(int64(p.n))+" "+p.label)
		}
	}

	noun := "tasks"
	if len(tasks) == 1 {
		noun = "task"
	}
	line := humanize.Comma(int64(len(tasks))) + " " + noun
	if len(parts) > 0 {
		line += ": " + strings.Join(parts, ", ")
	}
	return line
}

// Duration formats d for the report: milliseconds below a second,
// otherwise humanize's relative wording ("3 seconds", "2 minutes").
func Duration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	var zero time.Time
	return strings.TrimSpace(humanize.RelTime(zero, zero.Add(d), "", ""))
}

func statusCell(info progress.TaskInfo, th *theme.Theme) string {
	switch info.Status {
	case progress.StatusDone.String():
		return th.Done("DONE")
	case progress.StatusError.String():
		return th.Error("ERR")
	case progress.StatusCancelled.String():
		return th.Cancelled("CANCELLED")
	default:
		return "running"
	}
}

func progressCell(info progress.TaskInfo) string {
	if info.Percent == nil {
		return "-"
	}
	return fmt.Sprintf("%d%%", *info.Percent)
}
