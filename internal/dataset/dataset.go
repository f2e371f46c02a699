// Package dataset holds the spectra the user has pinned to the plot.
package dataset

import (
	"errors"
	"fmt"
	"sort"

	"speview/internal/palette"
)

var (
	// ErrCapacity means every line color is taken; the hold was refused.
	ErrCapacity = errors.New("all line colors are in use")
	ErrUnknown  = errors.New("file is not part of the data set")
)

// Reader loads the x and y values of a spectrum file.
type Reader interface {
	ReadSpectrum(name string) (x, y []float64, err error)
}

// Item is the data of one file. An item that is not held has no color and no
// values.
type Item struct {
	Filename string
	Held     bool
	Color    palette.Color
	X        []float64
	Y        []float64
}

func (it *Item) reset() {
	it.Held = false
	it.Color = palette.NoColor
	it.X = nil
	it.Y = nil
}

// Set maps file names to items and owns the color allocation for held items.
type Set struct {
	items  map[string]*Item
	colors *palette.Palette
}

// New creates an empty item for every file.
func New(colors *palette.Palette, files ...string) *Set {
	s := &Set{items: make(map[string]*Item, len(files)), colors: colors}
	for _, f := range files {
		s.Ensure(f)
	}
	return s
}

// Ensure adds an empty item for name if there is none yet.
func (s *Set) Ensure(name string) {
	if _, ok := s.items[name]; !ok {
		s.items[name] = &Item{Filename: name}
	}
}

// Drop releases name and forgets it.
func (s *Set) Drop(name string) error {
	if err := s.Release(name); err != nil {
		return err
	}
	delete(s.items, name)
	return nil
}

// Item returns the item of name.
func (s *Set) Item(name string) (*Item, bool) {
	it, ok := s.items[name]
	return it, ok
}

// Hold stores copies of x and y under a freshly acquired color. Holding an
// already held file changes nothing.
func (s *Set) Hold(name string, x, y []float64) error {
	it, ok := s.items[name]
	if !ok {
		return fmt.Errorf("hold %s: %w", name, ErrUnknown)
	}
	if it.Held {
		return nil
	}
	c := s.colors.Acquire()
	if c == palette.NoColor {
		return fmt.Errorf("hold %s: %w", name, ErrCapacity)
	}
	it.Held = true
	it.Color = c
	it.X = append([]float64(nil), x...)
	it.Y = append([]float64(nil), y...)
	return nil
}

// Release frees the color of name and clears its values. Releasing a file
// that is not held is a no-op.
func (s *Set) Release(name string) error {
	it, ok := s.items[name]
	if !ok {
		return fmt.Errorf("release %s: %w", name, ErrUnknown)
	}
	if !it.Held {
		return nil
	}
	if err := s.colors.Release(it.Color); err != nil {
		return fmt.Errorf("release %s: %w", name, err)
	}
	it.reset()
	return nil
}

// Toggle holds name (reading it through r) when it is not held and releases
// it otherwise. It reports whether name is held afterwards.
func (s *Set) Toggle(name string, r Reader) (bool, error) {
	it, ok := s.items[name]
	if !ok {
		return false, fmt.Errorf("toggle %s: %w", name, ErrUnknown)
	}
	if it.Held {
		return false, s.Release(name)
	}
	x, y, err := r.ReadSpectrum(name)
	if err != nil {
		return false, fmt.Errorf("toggle %s: %w", name, err)
	}
	if err := s.Hold(name, x, y); err != nil {
		return false, err
	}
	return true, nil
}

// Held returns the names of the held files, sorted.
func (s *Set) Held() []string {
	var names []string
	for name, it := range s.items {
		if it.Held {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Names returns every known file name, sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
