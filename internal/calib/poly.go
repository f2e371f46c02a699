// Package calib maps pixel numbers to Raman shift in wavenumbers.
package calib

// Poly is a polynomial with coefficients ordered from the highest degree
// down to the constant term, as numpy's polyval expects them.
type Poly []float64

// Identity leaves pixel numbers untouched.
var Identity = Poly{1, 0}

// Eval evaluates p at x using Horner's scheme.
func (p Poly) Eval(x float64) float64 {
	var y float64
	for _, c := range p {
		y = y*x + c
	}
	return y
}

// Apply evaluates p at every element of xs.
func (p Poly) Apply(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = p.Eval(x)
	}
	return out
}
