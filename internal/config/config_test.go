package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fullConfig = `
[general]
wavenum_calibration = "yes"
use_dark = "yes"
darkfile = "dark.SPE"

[wavenum_calibration]
material = "polystyrene"
datafile = "ps.SPE"
darkfile = "ps_dark.SPE"
shift = -3
`

func TestParseFull(t *testing.T) {
	cfg, err := Parse(fullConfig, "test", zap.NewNop())
	require.NoError(t, err)

	assert.True(t, cfg.CalibrationEnabled())
	assert.True(t, cfg.DarkEnabled())

	dark, err := cfg.DarkFile()
	require.NoError(t, err)
	assert.Equal(t, "dark.SPE", dark)

	req, err := cfg.CalibrationRequest()
	require.NoError(t, err)
	assert.Equal(t, CalibrationRequest{Material: "polystyrene", DataFile: "ps.SPE", DarkFile: "ps_dark.SPE", Shift: -3}, req)

	assert.ElementsMatch(t, []string{"ps.SPE", "ps_dark.SPE", "dark.SPE"}, cfg.Excluded())
}

func TestParseMinimalToleratesMissingKeys(t *testing.T) {
	cfg, err := Parse("[general]\nwavenum_calibration = \"no\"\nuse_dark = \"no\"\n", "test", zap.NewNop())
	require.NoError(t, err)

	assert.False(t, cfg.CalibrationEnabled())
	assert.False(t, cfg.DarkEnabled())
	assert.Empty(t, cfg.Excluded())

	_, err = cfg.DarkFile()
	assert.True(t, errors.Is(err, ErrMissingKey))
}

func TestCalibrationRequestReportsMissingKey(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantKey string
	}{
		{
			name:    "no material",
			text:    "[general]\nwavenum_calibration = \"yes\"\n[wavenum_calibration]\ndatafile = \"a.SPE\"\n",
			wantKey: "wavenum_calibration.material",
		},
		{
			name:    "no shift",
			text:    "[general]\n[wavenum_calibration]\nmaterial = \"x\"\ndatafile = \"a.SPE\"\ndarkfile = \"d.SPE\"\n",
			wantKey: "wavenum_calibration.shift",
		},
		{
			name:    "no section",
			text:    "[general]\nwavenum_calibration = \"yes\"\n",
			wantKey: "wavenum_calibration.material",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(tt.text, "test", zap.NewNop())
			require.NoError(t, err)
			_, err = cfg.CalibrationRequest()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingKey))
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("[wavenum_calibration]\nshift = 1\n", "test", zap.NewNop())
	assert.True(t, errors.Is(err, ErrMissingSection))

	_, err = Parse("[general]\nuse_dark = \"maybe\"\n", "test", zap.NewNop())
	assert.Error(t, err)

	_, err = Parse("[general\n", "test", zap.NewNop())
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(dir))

	cfg := Default()
	cfg.General.WavenumCalibration = true
	cfg.Calibration.Material = String("cyclohexane")
	cfg.Calibration.DataFile = String("cyc.SPE")
	cfg.Calibration.DarkFile = String("cyc_dark.SPE")
	cfg.Calibration.Shift = Int(0)
	require.NoError(t, cfg.Save(dir))
	assert.True(t, Exists(dir))

	loaded, err := Load(dir, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, loaded.CalibrationEnabled())
	assert.False(t, loaded.DarkEnabled())
	assert.Nil(t, loaded.General.DarkFile)

	req, err := loaded.CalibrationRequest()
	require.NoError(t, err)
	assert.Equal(t, 0, req.Shift, "a zero shift survives the round trip")
	assert.Equal(t, "cyclohexane", req.Material)
}

func TestSwitchText(t *testing.T) {
	var s Switch
	require.NoError(t, s.UnmarshalText([]byte("YES")))
	assert.True(t, bool(s))
	b, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "yes", string(b))
	assert.True(t, errors.Is(s.UnmarshalText([]byte("1")), ErrBadSwitch))
}
