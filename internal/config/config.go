// Package config reads and writes the per-directory viewer settings.
//
// The file is TOML with a [general] and a [wavenum_calibration] table. Keys
// that only matter when a feature is switched on are optional; asking for
// such a key while the feature is on and the key is absent yields
// ErrMissingKey.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

// FileName is the config file looked up in the data directory.
const FileName = ".speview.conf"

var (
	ErrMissingKey     = errors.New("missing config key")
	ErrMissingSection = errors.New("missing config section")
	ErrBadSwitch      = errors.New(`value must be "yes" or "no"`)
)

// Switch is a yes/no flag.
type Switch bool

func (s Switch) MarshalText() ([]byte, error) {
	if s {
		return []byte("yes"), nil
	}
	return []byte("no"), nil
}

func (s *Switch) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "yes":
		*s = true
	case "no", "":
		*s = false
	default:
		return fmt.Errorf("%q: %w", string(b), ErrBadSwitch)
	}
	return nil
}

type General struct {
	WavenumCalibration Switch  `toml:"wavenum_calibration"`
	UseDark            Switch  `toml:"use_dark"`
	DarkFile           *string `toml:"darkfile,omitempty"`
}

type Calibration struct {
	Material *string `toml:"material,omitempty"`
	DataFile *string `toml:"datafile,omitempty"`
	DarkFile *string `toml:"darkfile,omitempty"`
	Shift    *int    `toml:"shift,omitempty"`
}

type Config struct {
	General     General     `toml:"general"`
	Calibration Calibration `toml:"wavenum_calibration"`
}

// Default is the configuration used when the user just wants to look at the
// file: no calibration and no dark current correction.
func Default() *Config {
	return &Config{}
}

// Path returns the config file location for dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Exists reports whether dir has a config file.
func Exists(dir string) bool {
	_, err := os.Stat(Path(dir))
	return err == nil
}

// Load reads the config file of dir. Unknown keys are logged and ignored.
func Load(dir string, l *zap.Logger) (*Config, error) {
	path := Path(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(string(data), path, l)
}

// Parse decodes config text. name is only used in messages.
func Parse(text, name string, l *zap.Logger) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if !md.IsDefined("general") {
		return nil, fmt.Errorf("%s: [general]: %w", name, ErrMissingSection)
	}
	for _, key := range md.Undecoded() {
		l.Warn("ignoring unknown config key", zap.String("file", name), zap.String("key", key.String()))
	}
	return cfg, nil
}

// Save writes cfg as the config file of dir.
func (c *Config) Save(dir string) error {
	f, err := os.Create(Path(dir))
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}

// CalibrationEnabled reports general.wavenum_calibration.
func (c *Config) CalibrationEnabled() bool { return bool(c.General.WavenumCalibration) }

// DarkEnabled reports general.use_dark.
func (c *Config) DarkEnabled() bool { return bool(c.General.UseDark) }

// Excluded lists the reference files that must not be browsed. Unset keys
// are skipped.
func (c *Config) Excluded() []string {
	var out []string
	for _, p := range []*string{c.Calibration.DataFile, c.Calibration.DarkFile, c.General.DarkFile} {
		if p != nil && *p != "" {
			out = append(out, *p)
		}
	}
	return out
}

// DarkFile returns general.darkfile.
func (c *Config) DarkFile() (string, error) {
	return required(c.General.DarkFile, "general.darkfile")
}

// CalibrationRequest collects the keys needed to compute a calibration.
type CalibrationRequest struct {
	Material string
	DataFile string
	DarkFile string
	Shift    int
}

// CalibrationRequest returns the [wavenum_calibration] keys, failing on the
// first absent one.
func (c *Config) CalibrationRequest() (CalibrationRequest, error) {
	var req CalibrationRequest
	var err error
	if req.Material, err = required(c.Calibration.Material, "wavenum_calibration.material"); err != nil {
		return req, err
	}
	if req.DataFile, err = required(c.Calibration.DataFile, "wavenum_calibration.datafile"); err != nil {
		return req, err
	}
	if req.DarkFile, err = required(c.Calibration.DarkFile, "wavenum_calibration.darkfile"); err != nil {
		return req, err
	}
	if c.Calibration.Shift == nil {
		return req, fmt.Errorf("wavenum_calibration.shift: %w", ErrMissingKey)
	}
	req.Shift = *c.Calibration.Shift
	return req, nil
}

func required(p *string, key string) (string, error) {
	if p == nil || *p == "" {
		return "", fmt.Errorf("%s: %w", key, ErrMissingKey)
	}
	return *p, nil
}

// String returns a pointer to s, for filling optional keys.
func String(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int) *int { return &n }
