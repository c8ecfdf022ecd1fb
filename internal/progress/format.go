package progress

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// Output selects how the indicators reach the terminal.
type Output int

const (
	// OutputANSI redraws the task block in place using cursor movement.
	OutputANSI Output = iota
	// OutputRaw appends one line per event and never moves the cursor.
	OutputRaw
)

// String returns the config name of the output mode.
func (o Output) String() string {
	switch o {
	case OutputANSI:
		return "ansi"
	case OutputRaw:
		return "raw"
	default:
		return fmt.Sprintf("Output(%d)", int(o))
	}
}

// ParseOutput converts a config name into an Output. An empty name means
// OutputANSI.
func ParseOutput(s string) (Output, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ansi":
		return OutputANSI, nil
	case "raw", "plain":
		return OutputRaw, nil
	default:
		return OutputANSI, fmt.Errorf("unknown output mode %q", s)
	}
}

// ColorMode controls whether status labels are colorized.
type ColorMode int

const (
	// ColorAuto colors only interactive terminals that have not set NO_COLOR.
	ColorAuto ColorMode = iota
	// ColorAlways colors regardless of the output.
	ColorAlways
	// ColorNever never colors.
	ColorNever
)

// String returns the config name of the color mode.
func (c ColorMode) String() string {
	switch c {
	case ColorAuto:
		return "auto"
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return fmt.Sprintf("ColorMode(%d)", int(c))
	}
}

// ParseColorMode converts a config name into a ColorMode. An empty name
// means ColorAuto.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always", "on":
		return ColorAlways, nil
	case "never", "off":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("unknown color mode %q", s)
	}
}

// Format is the render configuration. It can be replaced while the
// indicators are running with Indicators.SetFormat.
type Format struct {
	// ShowIntermediateMessages prints a task's message on its own line
	// below the task.
	ShowIntermediateMessages bool
	// ShowFinishedTasks keeps finished tasks in the block, above the
	// running ones.
	ShowFinishedTasks bool
	// Output is the requested output mode. Raw is used regardless when the
	// writer is not an interactive terminal.
	Output Output
	// AutoClose stops rendering as soon as every task has finished. When
	// false, Indicators.SetCanClose must also be called.
	AutoClose bool
	// Color controls status label colors.
	Color ColorMode
}

// DefaultFormat shows messages and finished tasks, redraws with ANSI codes
// and waits for SetCanClose before closing.
func DefaultFormat() Format {
	return Format{
		ShowIntermediateMessages: true,
		ShowFinishedTasks:        true,
		Output:                   OutputANSI,
		AutoClose:                false,
		Color:                    ColorAuto,
	}
}

// useColor resolves the color mode against the output.
func (f Format) useColor(interactive bool) bool {
	switch f.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return interactive && !termenv.EnvNoColor()
	}
}
