// Package spelist keeps the circular list of SPE files of a working directory.
//
// The active file is always the head of the list. Rotating forward moves the
// head to the tail; rotating backward moves the tail to the head.
package spelist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the extension of WinSpec data files. Matching is case-insensitive.
const Ext = ".spe"

var (
	ErrNotFound = errors.New("file is not in the list")
	ErrEmpty    = errors.New("no SPE files in directory")
)

// List is a sorted ring of file names with a movable head.
type List struct {
	names []string
	head  int
}

// New builds a list from names, dropping every excluded name, sorting the
// rest and rotating it until start is the head.
func New(names []string, start string, exclude ...string) (*List, error) {
	l := &List{names: filter(names, exclude)}
	if len(l.names) == 0 {
		return nil, ErrEmpty
	}
	if err := l.Seek(start); err != nil {
		return nil, err
	}
	return l, nil
}

// Scan returns the eligible SPE file names of dir in sorted order.
func Scan(dir string, exclude ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !IsSPE(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	return filter(names, exclude), nil
}

// IsSPE reports whether name has the SPE extension.
func IsSPE(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Ext)
}

func filter(names, exclude []string) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		if e != "" {
			skip[e] = struct{}{}
		}
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := skip[n]; ok {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Seek rotates the list until name is the head.
func (l *List) Seek(name string) error {
	i := sort.SearchStrings(l.names, name)
	if i >= len(l.names) || l.names[i] != name {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	l.head = i
	return nil
}

// Head returns the active file name.
func (l *List) Head() string {
	if len(l.names) == 0 {
		return ""
	}
	return l.names[l.head]
}

// Forward makes the next file (wrapping around) the head.
func (l *List) Forward() {
	if len(l.names) < 2 {
		return
	}
	l.head = (l.head + 1) % len(l.names)
}

// Backward makes the previous file (wrapping around) the head.
func (l *List) Backward() {
	if len(l.names) < 2 {
		return
	}
	l.head = (l.head - 1 + len(l.names)) % len(l.names)
}

// Items returns the names in rotated order, head first.
func (l *List) Items() []string {
	out := make([]string, 0, len(l.names))
	out = append(out, l.names[l.head:]...)
	return append(out, l.names[:l.head]...)
}

// Len is the number of files in the list.
func (l *List) Len() int { return len(l.names) }

// Contains reports whether name is in the list.
func (l *List) Contains(name string) bool {
	i := sort.SearchStrings(l.names, name)
	return i < len(l.names) && l.names[i] == name
}

// Replace swaps in a new set of names. The head stays on the same file when
// it is still present, otherwise it moves to the next name in sort order.
func (l *List) Replace(names []string, exclude ...string) error {
	fresh := filter(names, exclude)
	if len(fresh) == 0 {
		return ErrEmpty
	}
	current := l.Head()
	l.names = fresh
	i := sort.SearchStrings(fresh, current)
	if i >= len(fresh) {
		i = 0
	}
	l.head = i
	return nil
}
