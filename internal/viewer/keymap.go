package viewer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnbound       = errors.New("action has no key")
	ErrUnknownAction = errors.New("unknown action")
)

// Action is something a key press does to the session.
type Action int

const (
	Next Action = iota + 1
	Prev
	Toggle
	Grid
	Visibility
	Diff
	DiffOff
	Info
	InfoDialog
	Help
	Format
	Save
	Export
)

var actionNames = map[Action]string{
	Next:       "next",
	Prev:       "prev",
	Toggle:     "toggle",
	Grid:       "grid",
	Visibility: "visibility",
	Diff:       "diff",
	DiffOff:    "diff-off",
	Info:       "info",
	InfoDialog: "info-dialog",
	Help:       "help",
	Format:     "format",
	Save:       "save",
	Export:     "export",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Actions lists every action in declaration order.
func Actions() []Action {
	out := make([]Action, 0, len(actionNames))
	for a := Next; a <= Export; a++ {
		out = append(out, a)
	}
	return out
}

// Keymap maps key names ("right", "space", "f5" or a single character) to
// actions. Character keys are case sensitive.
type Keymap map[string]Action

// DefaultKeymap is the binding shown in the help panel.
func DefaultKeymap() Keymap {
	return Keymap{
		"right": Next,
		"left":  Prev,
		"space": Toggle,
		"g":     Grid,
		"G":     Grid,
		"v":     Visibility,
		"V":     Visibility,
		"d":     Diff,
		"D":     DiffOff,
		"i":     Info,
		"I":     InfoDialog,
		"h":     Help,
		"H":     Help,
		"f5":    Format,
		"s":     Save,
		"x":     Export,
	}
}

// Validate checks that every action has a key and every key a known action.
func (k Keymap) Validate() error {
	bound := make(map[Action]bool, len(actionNames))
	for key, a := range k {
		if _, ok := actionNames[a]; !ok {
			return fmt.Errorf("key %q: %w", key, ErrUnknownAction)
		}
		bound[a] = true
	}
	for _, a := range Actions() {
		if !bound[a] {
			return fmt.Errorf("%s: %w", a, ErrUnbound)
		}
	}
	return nil
}

// Lookup returns the action bound to key.
func (k Keymap) Lookup(key string) (Action, bool) {
	a, ok := k[key]
	return a, ok
}

// Keys returns the keys bound to a, sorted.
func (k Keymap) Keys(a Action) []string {
	var out []string
	for key, b := range k {
		if a == b {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

var helpLines = []struct {
	action Action
	text   string
}{
	{Next, "next file"},
	{Prev, "previous file"},
	{Toggle, "hold / release the active spectrum"},
	{Grid, "grid on / off"},
	{Visibility, "show / hide the active spectrum"},
	{Diff, "difference to a held spectrum"},
	{DiffOff, "remove the difference"},
	{Info, "file info panel"},
	{InfoDialog, "file info window"},
	{Help, "this help"},
	{Format, "figure format"},
	{Save, "save figure"},
	{Export, "export spectra to Excel"},
}

// Help renders the key bindings of k as text.
func (k Keymap) Help() string {
	var b strings.Builder
	for i, h := range helpLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-12s %s", strings.Join(k.Keys(h.action), ", "), h.text)
	}
	return b.String()
}
