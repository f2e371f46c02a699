package calib

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/mat"

	"speview/internal/config"
	"speview/internal/spe"
)

var (
	ErrUnknownMaterial = errors.New("unknown reference material")
	ErrTooFewPeaks     = errors.New("not enough peaks found")
)

const (
	maxDegree = 3
	// peakHalfWidth is how far a sample must dominate its neighbours to count
	// as a local maximum.
	peakHalfWidth = 3
	// baseHalfWidth bounds the search for the valleys around a peak.
	baseHalfWidth = 25
)

// Report is what a calibration run found, for drawing a report figure.
type Report struct {
	Material   string
	Pixels     []float64
	Counts     []float64
	PeakPixels []float64
	Bands      []float64
	Poly       Poly
}

// PeakCalibrator fits a polynomial through the strongest peaks of a
// reference spectrum matched, in ascending order, with the tabulated bands
// of the reference material.
type PeakCalibrator struct {
	// Dir is where the reference files named in the request live.
	Dir string
	// Report, when set, receives the outcome of every successful run.
	Report func(Report) error
}

// Calibrate implements Calibrator.
func (pc *PeakCalibrator) Calibrate(req config.CalibrationRequest) (Poly, error) {
	want, err := Bands(req.Material)
	if err != nil {
		return nil, err
	}
	s, err := spe.Open(filepath.Join(pc.Dir, req.DataFile))
	if err != nil {
		return nil, err
	}
	if err := s.BackgroundCorrect(filepath.Join(pc.Dir, req.DarkFile)); err != nil {
		return nil, err
	}

	peaks := FindPeaks(s.Lum, len(want))
	if len(peaks) < len(want) {
		return nil, fmt.Errorf("%s: found %d of %d bands: %w", req.Material, len(peaks), len(want), ErrTooFewPeaks)
	}
	px := make([]float64, len(peaks))
	for i, p := range peaks {
		// pixel numbers start at 1
		px[i] = p + 1 + float64(req.Shift)
	}

	poly, err := Fit(px, want, maxDegree)
	if err != nil {
		return nil, err
	}
	if pc.Report != nil {
		r := Report{
			Material:   req.Material,
			Pixels:     s.Wavelen,
			Counts:     s.Lum,
			PeakPixels: px,
			Bands:      want,
			Poly:       poly,
		}
		if err := pc.Report(r); err != nil {
			return nil, fmt.Errorf("calibration report: %w", err)
		}
	}
	return poly, nil
}

// FindPeaks returns the sub-pixel positions (0-based) of the n most
// prominent local maxima of y, ascending by position.
func FindPeaks(y []float64, n int) []float64 {
	type peak struct {
		i          int
		prominence float64
	}
	var found []peak
	for i := 1; i < len(y)-1; i++ {
		if !isLocalMax(y, i) {
			continue
		}
		found = append(found, peak{i: i, prominence: prominence(y, i)})
	}
	sort.SliceStable(found, func(a, b int) bool {
		return found[a].prominence > found[b].prominence
	})
	if len(found) > n {
		found = found[:n]
	}
	out := make([]float64, 0, len(found))
	for _, p := range found {
		if p.prominence <= 0 {
			continue
		}
		out = append(out, refine(y, p.i))
	}
	sort.Float64s(out)
	return out
}

func isLocalMax(y []float64, i int) bool {
	lo, hi := clamp(i-peakHalfWidth, len(y)), clamp(i+peakHalfWidth, len(y))
	for j := lo; j <= hi; j++ {
		if j < i && y[j] >= y[i] {
			return false
		}
		if j > i && y[j] > y[i] {
			return false
		}
	}
	return y[i] > y[i-1]
}

func prominence(y []float64, i int) float64 {
	lo, hi := clamp(i-baseHalfWidth, len(y)), clamp(i+baseHalfWidth, len(y))
	left, right := y[i], y[i]
	for j := lo; j < i; j++ {
		left = min(left, y[j])
	}
	for j := i + 1; j <= hi; j++ {
		right = min(right, y[j])
	}
	return y[i] - max(left, right)
}

// refine places the vertex of the parabola through y[i-1], y[i], y[i+1].
func refine(y []float64, i int) float64 {
	den := y[i-1] - 2*y[i] + y[i+1]
	if den == 0 {
		return float64(i)
	}
	return float64(i) + 0.5*(y[i-1]-y[i+1])/den
}

func clamp(i, n int) int {
	return max(0, min(i, n-1))
}

// Fit returns the least-squares polynomial of at most degree deg through
// (x, y). The degree is lowered when there are too few points.
func Fit(x, y []float64, deg int) (Poly, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("fit: %d x values, %d y values", len(x), len(y))
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("fit: %d points: %w", len(x), ErrTooFewPeaks)
	}
	deg = min(deg, len(x)-1)

	// Solve in u = x/scale to keep the Vandermonde matrix well conditioned.
	scale := 0.0
	for _, xi := range x {
		scale = max(scale, math.Abs(xi))
	}
	if scale == 0 {
		scale = 1
	}
	a := mat.NewDense(len(x), deg+1, nil)
	for i, xi := range x {
		v := 1.0
		for k := deg; k >= 0; k-- {
			a.Set(i, k, v)
			v *= xi / scale
		}
	}
	var coef mat.VecDense
	if err := coef.SolveVec(a, mat.NewVecDense(len(y), append([]float64(nil), y...))); err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	p := make(Poly, deg+1)
	for k := range p {
		p[k] = coef.AtVec(k) / math.Pow(scale, float64(deg-k))
	}
	return p, nil
}
