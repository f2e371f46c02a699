// Package palette manages the line colors used for held spectra.
package palette

import (
	"errors"
	"fmt"
	"strings"
)

// Color is a hex RGB color such as "#800000".
type Color string

// NoColor is returned by Acquire when every palette slot is in use.
const NoColor Color = ""

const (
	activeColor Color = "#0000b0"
	diffColor   Color = "#008000"
)

var (
	ErrNotAcquired  = errors.New("color is not in use")
	ErrUnknownColor = errors.New("color is not part of the palette")
)

// defaultSeq mirrors matplotlib's "#800000", "r", "g", "m", "k", "y".
var defaultSeq = []Color{"#800000", "#ff0000", "#008000", "#bf00bf", "#000000", "#bfbf00"}

// Palette hands out a fixed sequence of colors. A color belongs to at most
// one holder at a time.
type Palette struct {
	seq  []Color
	used []bool
}

// New returns the standard six-color palette.
func New() *Palette {
	return NewWithColors(defaultSeq...)
}

// NewWithColors returns a palette over the given sequence.
func NewWithColors(colors ...Color) *Palette {
	seq := make([]Color, len(colors))
	copy(seq, colors)
	return &Palette{seq: seq, used: make([]bool, len(seq))}
}

// Acquire returns the first free color in palette order, or NoColor.
func (p *Palette) Acquire() Color {
	for i, c := range p.seq {
		if !p.used[i] {
			p.used[i] = true
			return c
		}
	}
	return NoColor
}

// Release marks c as free again.
func (p *Palette) Release(c Color) error {
	for i, s := range p.seq {
		if s != c {
			continue
		}
		if !p.used[i] {
			return fmt.Errorf("release %s: %w", c, ErrNotAcquired)
		}
		p.used[i] = false
		return nil
	}
	return fmt.Errorf("release %q: %w", c, ErrUnknownColor)
}

// Free reports how many colors can still be acquired.
func (p *Palette) Free() int {
	n := 0
	for _, u := range p.used {
		if !u {
			n++
		}
	}
	return n
}

// Size is the number of colors in the palette.
func (p *Palette) Size() int { return len(p.seq) }

// Default is the reserved color of the active (not held) spectrum.
func (p *Palette) Default() Color { return activeColor }

// Diff is the reserved color of the difference overlay.
func (p *Palette) Diff() Color { return diffColor }

func (p *Palette) String() string {
	var b strings.Builder
	for i, c := range p.seq {
		state := 0
		if p.used[i] {
			state = 1
		}
		fmt.Fprintf(&b, "%s = %d\n", c, state)
	}
	return b.String()
}
