package calib

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CacheFileName is the coefficient file kept in the data directory.
const CacheFileName = "xcal_coeffs.csv"

var ErrBadCache = errors.New("malformed calibration cache")

// Cache is a coefficient file: one number per line, highest degree first.
type Cache struct {
	Path string
}

// NewCache returns the cache of dir.
func NewCache(dir string) Cache {
	return Cache{Path: filepath.Join(dir, CacheFileName)}
}

// Exists reports whether the cache file is present.
func (c Cache) Exists() bool {
	_, err := os.Stat(c.Path)
	return err == nil
}

// Load reads the polynomial from the cache file.
func (c Cache) Load() (Poly, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("read calibration cache: %w", err)
	}
	var p Poly
	for _, field := range strings.Fields(strings.ReplaceAll(string(data), ",", " ")) {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q: %w", c.Path, field, ErrBadCache)
		}
		p = append(p, v)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("%s: no coefficients: %w", c.Path, ErrBadCache)
	}
	return p, nil
}

// Store writes p to the cache file.
func (c Cache) Store(p Poly) error {
	var b strings.Builder
	for _, v := range p {
		b.WriteString(strconv.FormatFloat(v, 'e', 18, 64))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(c.Path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write calibration cache: %w", err)
	}
	return nil
}
