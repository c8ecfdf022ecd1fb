package progress

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"time"
)

// screen interprets the subset of escape sequences the renderer emits:
// newlines, cursor up, clear to end of line, cursor visibility and SGR
// colors, which are dropped.
type screen struct {
	raw        bytes.Buffer
	lines      [][]rune
	row, col   int
	hidden     bool
	unknownSeq []string
}

func (s *screen) Write(p []byte) (int, error) {
	s.raw.Write(p)
	s.feed(string(p))
	return len(p), nil
}

func (s *screen) feed(data string) {
	rs := []rune(data)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch r {
		case '\n':
			s.row++
			s.col = 0
			s.ensure()
		case '\r':
			s.col = 0
		case '\033':
			i = s.escape(rs, i)
		default:
			s.put(r)
		}
	}
}

// escape parses the CSI sequence starting at rs[i] and returns the index of
// its final byte.
func (s *screen) escape(rs []rune, i int) int {
	if i+1 >= len(rs) || rs[i+1] != '[' {
		return i
	}
	j := i + 2
	for j < len(rs) && (rs[j] < 0x40 || rs[j] > 0x7e) {
		j++
	}
	if j >= len(rs) {
		return len(rs) - 1
	}
	params, final := string(rs[i+2:j]), rs[j]

	switch {
	case final == 'A':
		n := 1
		if params != "" {
			n, _ = strconv.Atoi(params)
		}
		s.row = max(s.row-n, 0)
	case final == 'K':
		s.ensure()
		if s.col < len(s.lines[s.row]) {
			s.lines[s.row] = s.lines[s.row][:s.col]
		}
	case final == 'm':
	case params == "?25" && final == 'l':
		s.hidden = true
	case params == "?25" && final == 'h':
		s.hidden = false
	default:
		s.unknownSeq = append(s.unknownSeq, params+string(final))
	}
	return j
}

func (s *screen) ensure() {
	for len(s.lines) <= s.row {
		s.lines = append(s.lines, nil)
	}
}

func (s *screen) put(r rune) {
	s.ensure()
	line := s.lines[s.row]
	for len(line) < s.col {
		line = append(line, ' ')
	}
	if s.col < len(line) {
		line[s.col] = r
	} else {
		line = append(line, r)
	}
	s.lines[s.row] = line
	s.col++
}

// text returns every line up to the last non-empty one.
func (s *screen) text() []string {
	out := make([]string, 0, len(s.lines))
	for _, l := range s.lines {
		out = append(out, string(l))
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// blankBelow reports whether every line from the cursor row down is blank.
func (s *screen) blankBelow() bool {
	for r := s.row; r < len(s.lines); r++ {
		if len(s.lines[r]) != 0 {
			return false
		}
	}
	return true
}

// frame returns the n lines directly above the cursor.
func (s *screen) frame(n int) []string {
	out := make([]string, 0, n)
	for r := s.row - n; r < s.row; r++ {
		if r < 0 || r >= len(s.lines) {
			out = append(out, "")
			continue
		}
		out = append(out, string(s.lines[r]))
	}
	return out
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// lockedBuffer is a bytes.Buffer safe for the render goroutine and a test
// reading it concurrently.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
