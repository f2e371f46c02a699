package calib

import (
	"fmt"

	"go.uber.org/zap"

	"speview/internal/config"
)

// Calibrator computes a calibration polynomial from a reference measurement.
type Calibrator interface {
	Calibrate(req config.CalibrationRequest) (Poly, error)
}

// Result is the calibration in effect for a session.
type Result struct {
	Poly       Poly
	Calibrated bool
}

// Resolve picks the calibration for cfg. With calibration switched off it
// returns the identity. Otherwise a present cache wins; only when the cache
// is missing is c invoked, and its answer is written to the cache.
func Resolve(cfg *config.Config, cache Cache, c Calibrator, l *zap.Logger) (Result, error) {
	if !cfg.CalibrationEnabled() {
		return Result{Poly: Identity}, nil
	}
	if cache.Exists() {
		p, err := cache.Load()
		if err != nil {
			return Result{}, err
		}
		l.Debug("loaded calibration cache", zap.String("path", cache.Path), zap.Int("degree", len(p)-1))
		return Result{Poly: p, Calibrated: true}, nil
	}

	req, err := cfg.CalibrationRequest()
	if err != nil {
		return Result{}, fmt.Errorf("calibration: %w", err)
	}
	l.Info("computing wavenumber calibration",
		zap.String("material", req.Material),
		zap.String("datafile", req.DataFile),
		zap.String("darkfile", req.DarkFile),
		zap.Int("shift", req.Shift))
	p, err := c.Calibrate(req)
	if err != nil {
		return Result{}, fmt.Errorf("calibration with %s: %w", req.DataFile, err)
	}
	if err := cache.Store(p); err != nil {
		return Result{}, err
	}
	l.Info("stored calibration cache", zap.String("path", cache.Path))
	return Result{Poly: p, Calibrated: true}, nil
}
