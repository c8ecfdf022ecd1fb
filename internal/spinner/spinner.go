// Package spinner provides the frame sequences used to animate tasks without
// a measurable progress, and the iterators that step through them.
//
// A Spinner is an immutable value. Each task that shows a spinner owns its
// own Iterator, created once and advanced by the renderer at a fixed cadence.
package spinner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ErrNoFrames is returned when a spinner is built from an empty frame list.
var ErrNoFrames = errors.New("spinner needs at least one frame")

// Mode selects how an Iterator walks the frames.
type Mode int

const (
	// Looping restarts at the first frame after the last one.
	Looping Mode = iota
	// Bouncing walks back and forth without repeating the end frames.
	Bouncing
)

// String returns the config name of the mode.
func (m Mode) String() string {
	switch m {
	case Looping:
		return "looping"
	case Bouncing:
		return "bouncing"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a config name into a Mode. An empty name means Looping.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "looping", "loop":
		return Looping, nil
	case "bouncing", "bounce":
		return Bouncing, nil
	default:
		return Looping, fmt.Errorf("unknown spinner mode %q", s)
	}
}

// Spinner is an ordered, non-empty list of frames plus a Mode.
type Spinner struct {
	frames []string
	mode   Mode
}

// New creates a spinner. Frames are right-padded with spaces to the display
// width of the widest frame so the text after the spinner does not shift
// while it animates.
func New(frames []string, mode Mode) (Spinner, error) {
	if len(frames) == 0 {
		return Spinner{}, ErrNoFrames
	}

	width := 0
	for _, f := range frames {
		if w := runewidth.StringWidth(f); w > width {
			width = w
		}
	}

	padded := make([]string, len(frames))
	for i, f := range frames {
		padded[i] = runewidth.FillRight(f, width)
	}

	return Spinner{frames: padded, mode: mode}, nil
}

// MustNew is like New but panics on an empty frame list. It is meant for
// package-level presets.
func MustNew(frames []string, mode Mode) Spinner {
	s, err := New(frames, mode)
	if err != nil {
		panic(err)
	}
	return s
}

// Frames returns a copy of the padded frames.
func (s Spinner) Frames() []string {
	out := make([]string, len(s.frames))
	copy(out, s.frames)
	return out
}

// Mode returns the iteration mode.
func (s Spinner) Mode() Mode {
	return s.mode
}

// IsZero reports whether s is the zero Spinner, which has no frames.
func (s Spinner) IsZero() bool {
	return len(s.frames) == 0
}

// Width returns the display width of every frame.
func (s Spinner) Width() int {
	if s.IsZero() {
		return 0
	}
	return runewidth.StringWidth(s.frames[0])
}

// Iterator returns a fresh iterator positioned before the first frame.
// Calling it on the zero Spinner panics.
func (s Spinner) Iterator() *Iterator {
	if s.IsZero() {
		panic("spinner: Iterator called on zero Spinner")
	}
	return &Iterator{frames: s.frames, mode: s.mode}
}
