// Package canvas draws pixels onto braille characters. The spinner package
// uses it to generate its braille animation frames.
package canvas

import "strings"

// brailleBase is the code point of the empty braille cell.
const brailleBase = '⠀'

// pixelToBit maps a pixel inside a 2x4 braille cell to its dot bit.
//
//	┌───┬───┐
//	│ 1 │ 4 │  row 0
//	│ 2 │ 5 │  row 1
//	│ 3 │ 6 │  row 2
//	│ 7 │ 8 │  row 3
//	└───┴───┘
var pixelToBit = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Canvas is a pixel grid rendered two pixels wide and four pixels tall per
// character.
type Canvas struct {
	width  int
	height int
	pixels [][]bool // [y][x]
}

// New creates a canvas. The width is rounded up to a multiple of 2 and the
// height to a multiple of 4.
func New(width, height int) *Canvas {
	if width%2 != 0 {
		width++
	}
	if height%4 != 0 {
		height += 4 - height%4
	}

	pixels := make([][]bool, height)
	for y := range pixels {
		pixels[y] = make([]bool, width)
	}
	return &Canvas{width: width, height: height, pixels: pixels}
}

// Width returns the width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the height in pixels.
func (c *Canvas) Height() int { return c.height }

// CharWidth returns the width in characters.
func (c *Canvas) CharWidth() int { return c.width / 2 }

// CharHeight returns the height in character rows.
func (c *Canvas) CharHeight() int { return c.height / 4 }

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Set lights the pixel at (x, y). Out-of-bounds coordinates are ignored.
func (c *Canvas) Set(x, y int) {
	if c.inBounds(x, y) {
		c.pixels[y][x] = true
	}
}

// Get reports whether the pixel at (x, y) is lit.
func (c *Canvas) Get(x, y int) bool {
	return c.inBounds(x, y) && c.pixels[y][x]
}

// Reset turns every pixel off.
func (c *Canvas) Reset() {
	for y := range c.pixels {
		clear(c.pixels[y])
	}
}

func (c *Canvas) cell(cx, cy int) rune {
	r := rune(brailleBase)
	for dx := range 2 {
		for dy := range 4 {
			if c.Get(cx*2+dx, cy*4+dy) {
				r += pixelToBit[dx][dy]
			}
		}
	}
	return r
}

// String renders the canvas, one line per character row.
func (c *Canvas) String() string {
	var sb strings.Builder
	for cy := range c.CharHeight() {
		if cy > 0 {
			sb.WriteByte('\n')
		}
		for cx := range c.CharWidth() {
			sb.WriteRune(c.cell(cx, cy))
		}
	}
	return sb.String()
}
