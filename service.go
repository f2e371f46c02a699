package main

import (
	"context"
	"errors"
	"image/color"
	"unicode"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"speview/internal/calib"
	"speview/internal/config"
	"speview/internal/plot"
	"speview/internal/spelist"
	"speview/internal/viewer"
)

var (
	_ viewer.Frontend = (*viewerWindow)(nil)
	_ viewer.Prompter = (*viewerWindow)(nil)
)

// runeKey names a typed character for the keymap.
func runeKey(r rune) (string, bool) {
	if r == ' ' {
		return "space", true
	}
	if !unicode.IsPrint(r) {
		return "", false
	}
	return string(r), true
}

// typedKey names the non-character keys of the keymap. Space arrives as a
// rune too and is handled there only.
func typedKey(k fyne.KeyName) (string, bool) {
	switch k {
	case fyne.KeyRight:
		return "right", true
	case fyne.KeyLeft:
		return "left", true
	case fyne.KeyF5:
		return "f5", true
	}
	return "", false
}

// viewerWindow is the main window. It is the frontend of the session and
// the prompter of the setup wizard.
type viewerWindow struct {
	app   fyne.App
	win   fyne.Window
	dir   string
	watch bool
	l     *zap.Logger

	session *viewer.Session
	cancel  context.CancelFunc

	chart     *canvas.Image
	helpText  *widget.Label
	helpPanel *fyne.Container
	infoText  *widget.Label
	infoPanel *fyne.Container
	status    *widget.Label
}

func newViewerWindow(a fyne.App, dir string, watch bool, l *zap.Logger) *viewerWindow {
	w := &viewerWindow{app: a, dir: dir, watch: watch, l: l}
	w.win = a.NewWindow("speview")
	if icon, err := iconFile.ReadFile("rsc/icon.png"); err == nil {
		w.win.SetIcon(fyne.NewStaticResource("icon.png", icon))
	}
	w.win.Resize(fyne.NewSize(1024, 680))

	w.chart = canvas.NewImageFromImage(plot.Blank(minCanvasWidth, minCanvasHeight))
	w.chart.FillMode = canvas.ImageFillContain

	panel := func(text *widget.Label) *fyne.Container {
		c := container.NewStack(
			canvas.NewRectangle(color.NRGBA{R: 255, G: 255, B: 255, A: 220}),
			container.NewPadded(text),
		)
		c.Hide()
		return c
	}
	w.helpText = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	w.helpPanel = panel(w.helpText)
	w.infoText = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	w.infoPanel = panel(w.infoText)

	w.status = widget.NewLabel("Press h for help")
	overlay := container.NewVBox(container.NewHBox(w.helpPanel, layout.NewSpacer(), w.infoPanel))
	w.win.SetContent(container.NewBorder(nil, w.status, nil, nil,
		container.NewStack(w.chart, container.NewPadded(overlay))))

	w.win.SetOnClosed(func() {
		if w.cancel != nil {
			w.cancel()
		}
	})
	return w
}

// start shows the file, running the setup first when the directory has no
// config.
func (w *viewerWindow) start(file string) {
	if config.Exists(w.dir) {
		cfg, err := config.Load(w.dir, w.l)
		if err != nil {
			w.fatal(err)
			return
		}
		w.open(cfg, file)
		return
	}

	files, err := spelist.Scan(w.dir)
	if err != nil {
		w.fatal(err)
		return
	}
	wiz := &viewer.Wizard{Dir: w.dir, Start: file, Files: files, Prompt: w, Logger: w.l.Named("setup")}
	wiz.Run(func(cfg *config.Config, show bool, err error) {
		switch {
		case err != nil:
			w.fatal(err)
		case !show:
			w.app.Quit()
		default:
			w.open(cfg, file)
		}
	})
}

func (w *viewerWindow) open(cfg *config.Config, file string) {
	pc := &calib.PeakCalibrator{Dir: w.dir, Report: plot.WriteReport(w.dir)}
	cal, err := calib.Resolve(cfg, calib.NewCache(w.dir), pc, w.l.Named("calib"))
	if err != nil {
		w.fatal(err)
		return
	}

	format, err := plot.ParseFormat(w.app.Preferences().StringWithFallback(prefFigureFormat, string(plot.PNG)))
	if err != nil {
		w.l.Warn("ignoring stored figure format", zap.Error(err))
		format = plot.PNG
	}
	s, err := viewer.NewSession(viewer.Options{
		Dir:      w.dir,
		Start:    file,
		Exclude:  cfg.Excluded(),
		Source:   viewer.NewFileReader(w.dir, cfg, cal, w.l.Named("reader")),
		Frontend: w,
		Format:   format,
		Logger:   w.l.Named("session"),
	})
	if err != nil {
		w.fatal(err)
		return
	}
	w.session = s
	w.bindKeys()
	w.Redraw()

	if w.watch {
		w.startWatch()
	}
}

func (w *viewerWindow) startWatch() {
	ctx, cancel := context.WithCancel(context.Background())
	err := watchDir(ctx, w.dir, watchSettle, func() {
		fyne.Do(func() {
			if err := w.session.Rescan(); err != nil {
				w.l.Warn("rescan failed", zap.Error(err))
				w.Notify("Rescan failed: " + err.Error())
			}
		})
	}, w.l.Named("watch"))
	if err != nil {
		cancel()
		w.l.Warn("directory watch unavailable", zap.Error(err))
		w.Notify("Directory watch unavailable")
		return
	}
	w.cancel = cancel
}

func (w *viewerWindow) bindKeys() {
	c := w.win.Canvas()
	c.SetOnTypedRune(func(r rune) {
		if key, ok := runeKey(r); ok {
			w.handleKey(key)
		}
	})
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if key, ok := typedKey(ev.Name); ok {
			w.handleKey(key)
		}
	})
}

func (w *viewerWindow) handleKey(key string) {
	if _, err := w.session.HandleKey(key); err != nil {
		w.l.Error("key failed", zap.String("key", key), zap.Error(err))
		dialog.ShowError(err, w.win)
	}
}

// fatal shows err and quits once the dialog is closed.
func (w *viewerWindow) fatal(err error) {
	w.l.Error("cannot continue", zap.Error(err))
	d := dialog.NewError(err, w.win)
	d.SetOnClosed(w.app.Quit)
	d.Show()
}

func (w *viewerWindow) chartSize() (int, int) {
	c := w.win.Canvas()
	size, scale := c.Size(), c.Scale()
	width := max(int(size.Width*scale), minCanvasWidth)
	height := max(int((size.Height-w.status.MinSize().Height)*scale), minCanvasHeight)
	return width, height
}

func (w *viewerWindow) Redraw() {
	if w.session == nil {
		return
	}
	s := w.session
	width, height := w.chartSize()
	img, err := plot.Image(s.Figure(), width, height)
	if err != nil {
		if !errors.Is(err, plot.ErrNoData) {
			w.l.Warn("render failed", zap.Error(err))
		}
		img = plot.Blank(width, height)
	}
	w.chart.Image = img
	w.chart.Refresh()
	w.win.SetTitle(s.Head() + " - speview")

	w.helpText.SetText(s.HelpText())
	w.infoText.SetText(s.Info())
	setVisible(w.helpPanel, s.HelpShown())
	setVisible(w.infoPanel, s.InfoShown())
}

func setVisible(o fyne.CanvasObject, show bool) {
	if show {
		o.Show()
	} else {
		o.Hide()
	}
}

func (w *viewerWindow) Notify(msg string) {
	w.status.SetText(msg)
}

func (w *viewerWindow) ShowError(err error) {
	dialog.ShowError(err, w.win)
}

func (w *viewerWindow) ShowInfo(title, text string) {
	dialog.ShowInformation(title, text, w.win)
}

func (w *viewerWindow) Choose(title string, options []string, done func(string)) {
	w.Pick(title, options, func(choice string, ok bool) {
		if ok {
			done(choice)
		}
	})
}

func (w *viewerWindow) ChooseFormat(current plot.Format, done func(plot.Format)) {
	radio := widget.NewRadioGroup(plot.Formats(), nil)
	radio.Required = true
	radio.SetSelected(string(current))
	dialog.ShowCustomConfirm("Figure format", "OK", "Cancel", radio, func(ok bool) {
		if !ok {
			return
		}
		f, err := plot.ParseFormat(radio.Selected)
		if err != nil {
			dialog.ShowError(err, w.win)
			return
		}
		w.app.Preferences().SetString(prefFigureFormat, string(f))
		w.Notify("Figures are saved as " + string(f))
		done(f)
	}, w.win)
}

// saveDialog asks for a file name in the data directory and hands the open
// file to write.
func (w *viewerWindow) saveDialog(name, ext string, write func(fyne.URIWriteCloser) error) {
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.win)
			return
		}
		if wc == nil {
			return
		}
		defer wc.Close()
		if err := write(wc); err != nil {
			w.l.Error("save failed", zap.String("path", wc.URI().Path()), zap.Error(err))
			dialog.ShowError(err, w.win)
			return
		}
		w.l.Info("saved", zap.String("path", wc.URI().Path()))
		w.Notify("Saved " + wc.URI().Path())
	}, w.win)
	fs.SetFileName(name)
	fs.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
	if dir, err := storage.ListerForURI(storage.NewFileURI(w.dir)); err == nil {
		fs.SetLocation(dir)
	}
	resizeDialog(fs, w.win)
	fs.Show()
}

func (w *viewerWindow) SaveFigure(fig *plot.Figure, name string, format plot.Format) {
	w.saveDialog(name, format.Ext(), func(wc fyne.URIWriteCloser) error {
		return plot.Render(wc, fig, format, saveWidth, saveHeight)
	})
}

func (w *viewerWindow) Export(fig *plot.Figure, name string) {
	w.saveDialog(name, ".xlsx", func(wc fyne.URIWriteCloser) error {
		return writeSpectraExcel(wc, fig.Title, fig)
	})
}

func (w *viewerWindow) Confirm(question string, done func(bool)) {
	dialog.ShowConfirm("speview", question, done, w.win)
}

func (w *viewerWindow) Pick(title string, options []string, done func(string, bool)) {
	data := binding.NewStringList()
	_ = data.Set(options)
	selected := ""
	list := widget.NewListWithData(data,
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(i binding.DataItem, o fyne.CanvasObject) {
			o.(*widget.Label).Bind(i.(binding.String))
		},
	)
	list.OnSelected = func(id widget.ListItemID) {
		selected = options[id]
	}
	d := dialog.NewCustomConfirm(title, "OK", "Cancel", list, func(ok bool) {
		done(selected, ok && selected != "")
	}, w.win)
	resizeDialog(d, w.win)
	d.Show()
}

func (w *viewerWindow) Entry(title, initial string, validate func(string) error, done func(string, bool)) {
	entry := widget.NewEntry()
	entry.SetText(initial)
	entry.Validator = validate
	items := []*widget.FormItem{widget.NewFormItem(title, entry)}
	dialog.ShowForm("speview", "OK", "Cancel", items, func(ok bool) {
		done(entry.Text, ok)
	}, w.win)
}
