// Package viewer holds the state of one viewer window and maps key presses
// to changes of that state.
package viewer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"speview/internal/dataset"
	"speview/internal/palette"
	"speview/internal/plot"
	"speview/internal/spelist"
)

const (
	activeWidth = 1.5
	heldWidth   = 1.0
)

// Frontend is the window a session draws into and asks the user through.
// Dialog methods may return before the user answered; done callbacks run
// later on the UI goroutine and are not called when the user cancels.
type Frontend interface {
	Redraw()
	Notify(msg string)
	ShowError(err error)
	ShowInfo(title, text string)
	Choose(title string, options []string, done func(string))
	ChooseFormat(current plot.Format, done func(plot.Format))
	SaveFigure(fig *plot.Figure, name string, format plot.Format)
	Export(fig *plot.Figure, name string)
}

// Options configure a new session.
type Options struct {
	Dir      string
	Start    string
	Exclude  []string
	Source   Source
	Frontend Frontend
	Keymap   Keymap
	Colors   *palette.Palette
	Format   plot.Format
	Logger   *zap.Logger
}

// Session is the mutable state of one viewer window. All methods must be
// called from the UI goroutine.
type Session struct {
	dir     string
	exclude []string
	list    *spelist.List
	set     *dataset.Set
	colors  *palette.Palette
	src     Source
	fe      Frontend
	keys    Keymap
	l       *zap.Logger

	x, y  []float64
	info  string
	diff  *dataset.Overlay
	diffX []float64

	grid     bool
	help     bool
	showInfo bool
	visible  bool
	format   plot.Format
}

// NewSession scans the directory, puts Start at the head of the file list and
// reads it.
func NewSession(o Options) (*Session, error) {
	if o.Keymap == nil {
		o.Keymap = DefaultKeymap()
	}
	if err := o.Keymap.Validate(); err != nil {
		return nil, fmt.Errorf("keymap: %w", err)
	}
	if o.Colors == nil {
		o.Colors = palette.New()
	}
	if o.Format == "" {
		o.Format = plot.PNG
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	names, err := spelist.Scan(o.Dir, o.Exclude...)
	if err != nil {
		return nil, err
	}
	list, err := spelist.New(names, o.Start)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.Start, err)
	}
	s := &Session{
		dir:     o.Dir,
		exclude: o.Exclude,
		list:    list,
		set:     dataset.New(o.Colors, list.Items()...),
		colors:  o.Colors,
		src:     o.Source,
		fe:      o.Frontend,
		keys:    o.Keymap,
		l:       o.Logger,
		visible: true,
		format:  o.Format,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	s.l.Info("session started", zap.String("dir", o.Dir), zap.String("file", s.Head()), zap.Int("files", list.Len()))
	return s, nil
}

// load reads the head. The active data is replaced only when both reads
// succeed.
func (s *Session) load() error {
	head := s.list.Head()
	x, y, err := s.src.ReadSpectrum(head)
	if err != nil {
		return err
	}
	info, err := s.src.Info(head)
	if err != nil {
		return err
	}
	s.x, s.y, s.info = x, y, info
	return nil
}

// step moves the list and reads the new head. When the head cannot be read
// the move is undone, so the active data always belongs to Head.
func (s *Session) step(move, undo func()) error {
	move()
	if err := s.load(); err != nil {
		s.l.Warn("cannot read file", zap.String("file", s.Head()), zap.Error(err))
		undo()
		return err
	}
	s.visible = true
	return nil
}

// HandleKey runs the action bound to key. It reports false for unbound keys.
func (s *Session) HandleKey(key string) (bool, error) {
	a, ok := s.keys.Lookup(key)
	if !ok {
		return false, nil
	}
	return true, s.Handle(a)
}

// Handle runs a and asks the frontend to redraw.
func (s *Session) Handle(a Action) error {
	defer s.fe.Redraw()
	s.l.Debug("action", zap.Stringer("action", a), zap.String("file", s.Head()))

	switch a {
	case Next:
		return s.step(s.list.Forward, s.list.Backward)
	case Prev:
		return s.step(s.list.Backward, s.list.Forward)
	case Toggle:
		return s.toggle()
	case Grid:
		s.grid = !s.grid
	case Visibility:
		s.visible = !s.visible
	case Diff:
		return s.startDiff()
	case DiffOff:
		s.diff, s.diffX = nil, nil
	case Info:
		s.showInfo = !s.showInfo
	case InfoDialog:
		s.fe.ShowInfo(s.Head(), s.info)
	case Help:
		s.help = !s.help
	case Format:
		s.fe.ChooseFormat(s.format, func(f plot.Format) {
			s.format = f
			s.l.Info("figure format", zap.String("format", string(f)))
		})
	case Save:
		s.fe.SaveFigure(s.Figure(), stem(s.Head())+s.format.Ext(), s.format)
	case Export:
		s.fe.Export(s.Figure(), stem(s.Head())+".xlsx")
	default:
		return fmt.Errorf("%s: %w", a, ErrUnknownAction)
	}
	return nil
}

func (s *Session) toggle() error {
	head := s.Head()
	held, err := s.set.Toggle(head, s.src)
	if errors.Is(err, dataset.ErrCapacity) {
		s.l.Warn("hold refused", zap.String("file", head), zap.Error(err))
		s.fe.Notify(fmt.Sprintf("Cannot hold %s: all %d line colors are in use", head, s.colors.Size()))
		return nil
	}
	if err != nil {
		return err
	}
	s.l.Debug("hold", zap.String("file", head), zap.Bool("held", held))
	return nil
}

func (s *Session) startDiff() error {
	head := s.Head()
	cands := s.set.Candidates(head)
	switch len(cands) {
	case 0:
		return nil
	case 1:
		return s.subtract(head, s.x, s.y, cands[0])
	}
	x, y := s.x, s.y
	s.fe.Choose("Subtract from "+head, cands, func(name string) {
		if err := s.subtract(head, x, y, name); err != nil {
			s.fe.ShowError(err)
		}
		s.fe.Redraw()
	})
	return nil
}

func (s *Session) subtract(active string, x, y []float64, held string) error {
	ov, err := s.set.NewOverlay(active, y, held, Label)
	if err != nil {
		return err
	}
	s.diff = ov
	s.diffX = append([]float64(nil), x...)
	s.l.Debug("difference", zap.String("minuend", active), zap.String("subtrahend", held))
	return nil
}

// Rescan re-reads the directory after files were added or removed.
func (s *Session) Rescan() error {
	defer s.fe.Redraw()
	names, err := spelist.Scan(s.dir, s.exclude...)
	if err != nil {
		return err
	}
	prev := s.Head()
	if err := s.list.Replace(names); err != nil {
		return err
	}
	for _, name := range names {
		s.set.Ensure(name)
	}
	for _, name := range s.set.Names() {
		if s.list.Contains(name) {
			continue
		}
		if err := s.set.Drop(name); err != nil {
			return err
		}
		s.l.Info("file removed", zap.String("file", name))
	}
	if s.Head() == prev {
		return nil
	}
	s.visible = true
	if err := s.load(); err != nil {
		// the old head is gone; show nothing rather than its data
		s.x, s.y, s.info = nil, nil, ""
		return err
	}
	return nil
}

// Figure describes the current plot.
func (s *Session) Figure() *plot.Figure {
	f := &plot.Figure{
		Title:    s.Head(),
		XLabel:   "pixel number",
		YLabel:   "Counts",
		Grid:     s.grid,
		ZeroLine: true,
	}
	if s.src.Calibrated() {
		f.XLabel = "Wavenumber, cm-1"
	}
	for _, name := range s.set.Held() {
		it, _ := s.set.Item(name)
		f.Lines = append(f.Lines, plot.Line{
			Name:  Label(name),
			Color: it.Color,
			Width: heldWidth,
			X:     it.X,
			Y:     it.Y,
		})
	}
	if s.visible {
		f.Lines = append(f.Lines, plot.Line{
			Name:  Label(s.Head()),
			Color: s.colors.Default(),
			Width: activeWidth,
			X:     s.x,
			Y:     s.y,
		})
	}
	f.HideYAxis = len(f.Lines) == 0
	if s.diff != nil {
		f.Diff = &plot.Line{
			Name:  s.diff.Label,
			Color: s.colors.Diff(),
			Width: heldWidth,
			X:     s.diffX,
			Y:     s.diff.Y,
		}
	}
	return f
}

// Head is the active file.
func (s *Session) Head() string { return s.list.Head() }

// Files lists the browsable files, active first.
func (s *Session) Files() []string { return s.list.Items() }

// Held lists the held files, sorted.
func (s *Session) Held() []string { return s.set.Held() }

// Overlay is the current difference, or nil.
func (s *Session) Overlay() *dataset.Overlay { return s.diff }

func (s *Session) Info() string        { return s.info }
func (s *Session) Grid() bool          { return s.grid }
func (s *Session) Visible() bool       { return s.visible }
func (s *Session) HelpShown() bool     { return s.help }
func (s *Session) InfoShown() bool     { return s.showInfo }
func (s *Session) Format() plot.Format { return s.format }

// HelpText describes the key bindings.
func (s *Session) HelpText() string { return s.keys.Help() }
