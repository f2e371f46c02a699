package viewer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"speview/internal/calib"
	"speview/internal/config"
	"speview/internal/spe"
)

func writeSPE(t *testing.T, dir, name string, lum ...float64) {
	t.Helper()
	require.NoError(t, spe.WriteFile(filepath.Join(dir, name), spe.Header{Date: "03Oct2014", Time: "101500"}, lum))
}

func TestFileReaderCalibration(t *testing.T) {
	dir := t.TempDir()
	writeSPE(t, dir, "a.SPE", 10, 20, 30)

	r := NewFileReader(dir, config.Default(), calib.Result{Poly: calib.Poly{2, 1}, Calibrated: true}, zap.NewNop())
	x, y, err := r.ReadSpectrum("a.SPE")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5, 7}, x)
	assert.Equal(t, []float64{10, 20, 30}, y)
	assert.True(t, r.Calibrated())

	info, err := r.Info("a.SPE")
	require.NoError(t, err)
	assert.Contains(t, info, "10:15:00")
}

func TestFileReaderDark(t *testing.T) {
	dir := t.TempDir()
	writeSPE(t, dir, "a.SPE", 10, 20, 30)
	writeSPE(t, dir, "b.SPE", 10, 20, 30)
	writeSPE(t, dir, "dark.SPE", 1, 1, 1)
	writeSPE(t, dir, "a.dark.SPE", 5, 5, 5)

	cfg := config.Default()
	cfg.General.UseDark = true
	cfg.General.DarkFile = config.String("dark.SPE")
	r := NewFileReader(dir, cfg, calib.Result{Poly: calib.Identity}, zap.NewNop())

	_, y, err := r.ReadSpectrum("a.SPE")
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 15, 25}, y, "per-file dark wins")

	_, y, err = r.ReadSpectrum("b.SPE")
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 19, 29}, y)

	cfg.General.DarkFile = nil
	_, _, err = r.ReadSpectrum("b.SPE")
	assert.True(t, errors.Is(err, config.ErrMissingKey))

	_, _, err = r.ReadSpectrum("a.SPE")
	assert.NoError(t, err, "the override needs no general.darkfile")
}

func TestFileReaderDarkMismatch(t *testing.T) {
	dir := t.TempDir()
	writeSPE(t, dir, "a.SPE", 10, 20, 30)
	writeSPE(t, dir, "dark.SPE", 1, 1)

	cfg := config.Default()
	cfg.General.UseDark = true
	cfg.General.DarkFile = config.String("dark.SPE")
	r := NewFileReader(dir, cfg, calib.Result{Poly: calib.Identity}, zap.NewNop())
	_, _, err := r.ReadSpectrum("a.SPE")
	assert.True(t, errors.Is(err, spe.ErrDarkMismatch))
}
