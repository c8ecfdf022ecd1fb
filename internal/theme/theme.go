// Package theme provides the styles used to render task status labels and
// intermediate message lines.
package theme

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette entries, as ANSI color indexes.
var (
	colorDone      = lipgloss.Color("2") // green
	colorError     = lipgloss.Color("1") // red
	colorCancelled = lipgloss.Color("3") // yellow
	colorMessage   = lipgloss.Color("8") // dark gray
	colorGlobal    = lipgloss.Color("6") // cyan
)

// Theme renders labels with or without color. A Theme is immutable and safe
// for concurrent use.
type Theme struct {
	color     bool
	done      lipgloss.Style
	failed    lipgloss.Style
	cancelled lipgloss.Style
	message   lipgloss.Style
	global    lipgloss.Style
}

// New builds a theme. When color is false every method returns its input
// unchanged.
func New(color bool) *Theme {
	// The renderer's own writer is never used for output; pinning the
	// profile keeps lipgloss from probing the environment.
	r := lipgloss.NewRenderer(io.Discard)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Theme{
		color:     color,
		done:      r.NewStyle().Foreground(colorDone),
		failed:    r.NewStyle().Foreground(colorError),
		cancelled: r.NewStyle().Foreground(colorCancelled),
		message:   r.NewStyle().Foreground(colorMessage),
		global:    r.NewStyle().Foreground(colorGlobal).Bold(true),
	}
}

// Color reports whether the theme emits color codes.
func (t *Theme) Color() bool { return t.color }

// Done styles a successful completion label.
func (t *Theme) Done(s string) string { return t.render(t.done, s) }

// Error styles a failure label.
func (t *Theme) Error(s string) string { return t.render(t.failed, s) }

// Cancelled styles a cancellation label.
func (t *Theme) Cancelled(s string) string { return t.render(t.cancelled, s) }

// Message styles an intermediate message line.
func (t *Theme) Message(s string) string { return t.render(t.message, s) }

// Global styles a highlighted global message.
func (t *Theme) Global(s string) string { return t.render(t.global, s) }

func (t *Theme) render(style lipgloss.Style, s string) string {
	if !t.color {
		return s
	}
	return style.Render(s)
}
