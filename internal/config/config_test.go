package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(&cfg))
}

func TestLoadFromPath_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromPath_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[planner]
rate = 1.5
work_hours = 10

[[rates]]
shift_type = "night"
rate = 1.8
effective_from = "2025-01-01"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.Planner.Rate)
	assert.Equal(t, 10.0, cfg.Planner.WorkHours)
	assert.Equal(t, 2, cfg.Planner.BreakInterval)
	assert.Equal(t, 10, cfg.Forecast.Window)
	require.Len(t, cfg.Rates, 1)
	assert.Equal(t, "night", cfg.Rates[0].ShiftType)
}

func TestLoadFromPath_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown theme", "[appearance]\ntheme = \"neon\"\n"},
		{"zero break interval", "[planner]\nbreak_interval = 0\n"},
		{"min points above window", "[forecast]\nwindow = 3\nmin_points = 5\n"},
		{"bad shift type", "[planner]\nshift_type = \"weekend\"\n"},
		{"bad rate date", "[[rates]]\nrate = 1\neffective_from = \"01/02/2025\"\n"},
		{"bad daemon addr", "[daemon]\naddr = \"nowhere\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))
			_, err := LoadFromPath(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestLoadFromPath_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[planner\nrate ="), 0o600))
	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestSaveToPath_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Planner.Rate = 2.25
	cfg.General.DefaultPeriod = "month"
	cfg.Rates = []RateEntry{{Rate: 2.5, EffectiveFrom: "2025-06-01"}}

	require.NoError(t, SaveToPath(path, cfg))
	assert.True(t, ExistsAt(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveToPath_RejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Forecast.MonthSteps = 0
	err := SaveToPath(filepath.Join(t.TempDir(), "config.toml"), cfg)
	assert.Error(t, err)
}

func TestConfigDir_HonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	assert.Equal(t, filepath.Join("/tmp/xdg-config", "pickplan", "config.toml"), ConfigPath())
}
