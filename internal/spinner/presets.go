package spinner

import (
	"fmt"
	"sort"
	"strings"

	"taskprogress/internal/canvas"
)

// trailLength is the number of lit dots in the circle animation, head included.
const trailLength = 4

// circlePixels is a clockwise circle on a 4x4 braille grid, starting at the
// top center.
//
//	  0   1   2   3
//	0     *   *
//	1 *           *
//	2 *           *
//	3     *   *
var circlePixels = [][2]int{
	{1, 0}, {2, 0}, {3, 1}, {3, 2},
	{2, 3}, {1, 3}, {0, 2}, {0, 1},
}

// Built-in spinners.
var (
	// Default is the three-cell star used when a task names no spinner.
	Default = MustNew([]string{"*--", "-*-", "--*"}, Looping)
	// Dots is the classic braille dots spinner.
	Dots = MustNew([]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}, Looping)
	// Line is an ASCII rotating bar.
	Line = MustNew([]string{"-", "\\", "|", "/"}, Looping)
	// Bounce moves a star across three cells and back.
	Bounce = MustNew([]string{"*  ", " * ", "  *"}, Bouncing)
	// Circle is a braille dot trail running around a circle.
	Circle = MustNew(CircleFrames(), Looping)
)

var presets = map[string]Spinner{
	"default": Default,
	"dots":    Dots,
	"line":    Line,
	"bounce":  Bounce,
	"circle":  Circle,
}

// Preset looks up a built-in spinner by name.
func Preset(name string) (Spinner, error) {
	s, ok := presets[strings.ToLower(name)]
	if !ok {
		return Spinner{}, fmt.Errorf("unknown spinner preset %q (have %s)", name, strings.Join(PresetNames(), ", "))
	}
	return s, nil
}

// PresetNames returns the built-in spinner names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CircleFrames renders one frame per position on the circle path, each with
// a trail of trailLength dots behind the head.
func CircleFrames() []string {
	c := canvas.New(4, 4)
	n := len(circlePixels)
	frames := make([]string, n)

	for head := range n {
		c.Reset()
		for i := range trailLength {
			pos := circlePixels[(head-i+n)%n]
			c.Set(pos[0], pos[1])
		}
		frames[head] = c.String()
	}
	return frames
}
