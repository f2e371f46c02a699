package dataset

import (
	"errors"
	"fmt"
)

var ErrLengthMismatch = errors.New("spectra have different lengths")

// Overlay is the difference between the active spectrum and one held item.
type Overlay struct {
	Y     []float64
	Label string
	// Minuend and Subtrahend name the two files, active first.
	Minuend    string
	Subtrahend string
}

// Subtract returns active - held element by element.
func Subtract(active, held []float64) ([]float64, error) {
	if len(active) != len(held) {
		return nil, fmt.Errorf("%d vs %d points: %w", len(active), len(held), ErrLengthMismatch)
	}
	out := make([]float64, len(active))
	for i := range active {
		out[i] = active[i] - held[i]
	}
	return out, nil
}

// Candidates lists the held files that can be subtracted from active.
func (s *Set) Candidates(active string) []string {
	var out []string
	for _, name := range s.Held() {
		if name != active {
			out = append(out, name)
		}
	}
	return out
}

// NewOverlay subtracts the held item subtrahend from the active values.
func (s *Set) NewOverlay(active string, activeY []float64, subtrahend string, label func(string) string) (*Overlay, error) {
	it, ok := s.items[subtrahend]
	if !ok || !it.Held {
		return nil, fmt.Errorf("diff %s: %w", subtrahend, ErrUnknown)
	}
	y, err := Subtract(activeY, it.Y)
	if err != nil {
		return nil, fmt.Errorf("diff %s - %s: %w", active, subtrahend, err)
	}
	return &Overlay{
		Y:          y,
		Label:      label(active) + "\n" + label(subtrahend),
		Minuend:    active,
		Subtrahend: subtrahend,
	}, nil
}
