// Package plot describes what the viewer draws and renders it with go-chart.
package plot

import (
	"errors"
	"fmt"
	"strings"

	"speview/internal/palette"
)

var (
	ErrNoData = errors.New("nothing to draw")
	ErrFormat = errors.New("unsupported figure format")
)

// Format is an output format for saved figures.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// Formats lists the supported formats, default first.
func Formats() []string { return []string{string(PNG), string(SVG)} }

// ParseFormat accepts a format name in any letter case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, SVG:
		return f, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrFormat)
}

// Ext returns the file extension of f, with the dot.
func (f Format) Ext() string { return "." + string(f) }

// Line is one spectrum on the figure.
type Line struct {
	Name  string
	Color palette.Color
	Width float64
	X     []float64
	Y     []float64
}

// Figure is a render independent description of the plot.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Lines  []Line
	// Diff is drawn against the secondary y axis.
	Diff     *Line
	Grid     bool
	ZeroLine bool
	// HideYAxis drops the primary y axis, used when no spectrum is shown.
	HideYAxis bool
}

// Empty reports whether there is no line with data.
func (f *Figure) Empty() bool {
	for _, l := range f.Lines {
		if len(l.X) > 0 {
			return false
		}
	}
	return f.Diff == nil || len(f.Diff.X) == 0
}

// limits returns the smallest and largest value of every slice together.
func limits(vals ...[]float64) (lo, hi float64, ok bool) {
	for _, v := range vals {
		for _, x := range v {
			if !ok {
				lo, hi, ok = x, x, true
				continue
			}
			lo, hi = min(lo, x), max(hi, x)
		}
	}
	return lo, hi, ok
}

// margin widens [lo, hi] by frac of its span on both ends. A flat range
// becomes one unit wide.
func margin(lo, hi, frac float64) (float64, float64) {
	if hi == lo {
		return lo - 1, hi + 1
	}
	d := (hi - lo) * frac
	return lo - d, hi + d
}
