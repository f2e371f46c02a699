package viewer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"speview/internal/calib"
	"speview/internal/config"
)

const MaxShift = 50

var (
	ErrShiftNotInteger = errors.New("shift must be an integer")
	ErrShiftRange      = fmt.Errorf("shift must be between -%d and %d", MaxShift, MaxShift)
	ErrNoChoices       = errors.New("no files to choose from")
)

// ValidateShift parses the x-axis shift typed by the user.
func ValidateShift(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%q: %w", text, ErrShiftNotInteger)
	}
	if n < -MaxShift || n > MaxShift {
		return 0, fmt.Errorf("%d: %w", n, ErrShiftRange)
	}
	return n, nil
}

// Prompter asks the user. Each call returns immediately and reports the
// answer through done; ok is false when the dialog was dismissed.
type Prompter interface {
	Confirm(question string, done func(yes bool))
	Pick(title string, options []string, done func(choice string, ok bool))
	Entry(title, initial string, validate func(string) error, done func(text string, ok bool))
}

// Wizard creates the configuration of a directory that has none.
type Wizard struct {
	Dir    string
	Start  string
	Files  []string
	Prompt Prompter
	Logger *zap.Logger

	cfg  *config.Config
	done func(cfg *config.Config, show bool, err error)
}

// Run walks through the questions. done receives the configuration to view
// with and whether the user wants to see the file.
func (w *Wizard) Run(done func(cfg *config.Config, show bool, err error)) {
	if w.Logger == nil {
		w.Logger = zap.NewNop()
	}
	w.cfg = config.Default()
	w.done = done
	w.Prompt.Confirm("Should I just show the SPE file?\n"+
		"If you answer 'No', then I will\n"+
		"create a config with the standard\n"+
		"settings for this folder", func(yes bool) {
		if yes {
			done(w.cfg, true, nil)
			return
		}
		w.askCalibration()
	})
}

func (w *Wizard) askCalibration() {
	w.Prompt.Confirm("Would you like to use\nwavenumber calibration?", func(yes bool) {
		if !yes {
			w.askDark(w.Files)
			return
		}
		w.cfg.General.WavenumCalibration = true
		w.pick("SPE file for calibration", w.Files, func(data string) {
			w.cfg.Calibration.DataFile = config.String(data)
			rest := without(w.Files, data)
			w.pick("Corresponding dark current SPE file", rest, func(dark string) {
				w.cfg.Calibration.DarkFile = config.String(dark)
				rest := without(rest, dark)
				w.pick("Select the material", calib.Materials(), func(m string) {
					w.cfg.Calibration.Material = config.String(m)
					w.askShift(func(shift int) {
						w.cfg.Calibration.Shift = config.Int(shift)
						w.askDark(rest)
					})
				})
			})
		})
	})
}

func (w *Wizard) askDark(files []string) {
	w.Prompt.Confirm("Would you like to use\ndark current correction?", func(yes bool) {
		if !yes {
			w.save()
			return
		}
		w.cfg.General.UseDark = true
		w.pick("Dark current SPE file", files, func(dark string) {
			w.cfg.General.DarkFile = config.String(dark)
			w.save()
		})
	})
}

func (w *Wizard) save() {
	if err := w.cfg.Save(w.Dir); err != nil {
		w.done(nil, false, err)
		return
	}
	w.Logger.Info("config written", zap.String("path", config.Path(w.Dir)))
	w.Prompt.Confirm("Would you like to see the SPE file?\n"+w.Start, func(yes bool) {
		w.done(w.cfg, yes, nil)
	})
}

// pick asks again until the user makes a choice.
func (w *Wizard) pick(title string, options []string, then func(string)) {
	if len(options) == 0 {
		w.done(nil, false, fmt.Errorf("%s: %w", title, ErrNoChoices))
		return
	}
	w.Prompt.Pick(title, options, func(choice string, ok bool) {
		if !ok || choice == "" {
			w.pick(title, options, then)
			return
		}
		then(choice)
	})
}

func (w *Wizard) askShift(then func(int)) {
	validate := func(s string) error {
		_, err := ValidateShift(s)
		return err
	}
	w.Prompt.Entry("Shift of x-axis (px)", "0", validate, func(text string, ok bool) {
		n, err := ValidateShift(text)
		if !ok || err != nil {
			if err != nil {
				w.Logger.Debug("invalid shift", zap.Error(err))
			}
			w.askShift(then)
			return
		}
		then(n)
	})
}

func without(names []string, drop string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != drop {
			out = append(out, n)
		}
	}
	return out
}
