package spinner

// Iterator is a cursor over a spinner's frames. It is not safe for
// concurrent use; the owning task's lock protects it.
type Iterator struct {
	frames  []string
	mode    Mode
	i       int
	reverse bool
	current string
	started bool
}

// Next advances the iterator and returns the new frame.
func (it *Iterator) Next() string {
	if it.mode == Bouncing {
		it.current = it.nextBouncing()
	} else {
		it.current = it.nextLooping()
	}
	it.started = true
	return it.current
}

// Current returns the frame last returned by Next without advancing. Before
// the first call to Next it advances once.
func (it *Iterator) Current() string {
	if !it.started {
		return it.Next()
	}
	return it.current
}

func (it *Iterator) nextLooping() string {
	frame := it.frames[it.i]
	it.i = (it.i + 1) % len(it.frames)
	return frame
}

// nextBouncing yields 0..n-1..0..n-1 where the turn-around frames appear once.
func (it *Iterator) nextBouncing() string {
	n := len(it.frames)
	if n == 1 {
		return it.frames[0]
	}

	switch {
	case it.i == n:
		it.i = n - 2
		it.reverse = true
	case it.i == -1:
		it.i = 1
		it.reverse = false
	}

	frame := it.frames[it.i]
	if it.reverse {
		it.i--
	} else {
		it.i++
	}
	return frame
}
