package viewer

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"speview/internal/calib"
	"speview/internal/config"
	"speview/internal/dataset"
	"speview/internal/spe"
)

// Source supplies spectra to a session.
type Source interface {
	dataset.Reader
	// Info describes the acquisition of name in a few lines.
	Info(name string) (string, error)
	// Calibrated reports whether x values are wavenumbers.
	Calibrated() bool
}

// FileReader reads the SPE files of one directory, subtracting the dark
// current when configured and mapping pixels through the calibration.
type FileReader struct {
	dir string
	cfg *config.Config
	cal calib.Result
	l   *zap.Logger
}

func NewFileReader(dir string, cfg *config.Config, cal calib.Result, l *zap.Logger) *FileReader {
	return &FileReader{dir: dir, cfg: cfg, cal: cal, l: l}
}

// Open reads name and applies the dark correction.
func (r *FileReader) Open(name string) (*spe.Spectrum, error) {
	s, err := spe.Open(filepath.Join(r.dir, name))
	if err != nil {
		return nil, err
	}
	if !r.cfg.DarkEnabled() {
		return s, nil
	}
	dark, err := r.DarkFor(name)
	if err != nil {
		return nil, fmt.Errorf("dark correction of %s: %w", name, err)
	}
	r.l.Debug("dark correction", zap.String("file", name), zap.String("dark", filepath.Base(dark)))
	if err := s.BackgroundCorrect(dark); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// DarkFor returns the dark file for name. A file named like name with
// "dark.SPE" (or "dark.spe") in place of the "SPE" extension overrides
// general.darkfile.
func (r *FileReader) DarkFor(name string) (string, error) {
	if len(name) > 3 {
		base := name[:len(name)-3]
		for _, cand := range []string{base + "dark.SPE", base + "dark.spe"} {
			p := filepath.Join(r.dir, cand)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	df, err := r.cfg.DarkFile()
	if err != nil {
		return "", err
	}
	return filepath.Join(r.dir, df), nil
}

func (r *FileReader) ReadSpectrum(name string) (x, y []float64, err error) {
	s, err := r.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return r.cal.Poly.Apply(s.Wavelen), s.Lum, nil
}

func (r *FileReader) Info(name string) (string, error) {
	s, err := spe.Open(filepath.Join(r.dir, name))
	if err != nil {
		return "", err
	}
	return s.FileInfo(), nil
}

func (r *FileReader) Calibrated() bool { return r.cal.Calibrated }
