// Package config loads and saves pickplan's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config holds all pickplan configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Planner    PlannerConfig    `toml:"planner"`
	Forecast   ForecastConfig   `toml:"forecast"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Rates      []RateEntry      `toml:"rates,omitempty" validate:"dive"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath        string `toml:"db_path,omitempty"`
	DefaultPeriod string `toml:"default_period" validate:"oneof=week month year"`
}

// PlannerConfig holds the values pre-filled into new plans.
type PlannerConfig struct {
	Rate          float64 `toml:"rate" validate:"gte=0"`
	WorkHours     float64 `toml:"work_hours" validate:"gt=0,lte=24"`
	BreakInterval int     `toml:"break_interval" validate:"gte=1,lte=24"`
	ShiftType     string  `toml:"shift_type" validate:"oneof=day night short long"`
}

// ForecastConfig tunes the earnings projection.
type ForecastConfig struct {
	Window     int `toml:"window" validate:"gte=2,lte=365"`
	MinPoints  int `toml:"min_points" validate:"gte=2,ltefield=Window"`
	MonthSteps int `toml:"month_steps" validate:"gte=1,lte=31"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" validate:"oneof=flexoki-dark catppuccin-mocha tokyo-night terminal"`
}

// DaemonConfig holds the status daemon settings.
type DaemonConfig struct {
	Addr         string `toml:"addr" validate:"hostname_port"`
	IntervalSecs int    `toml:"interval_secs" validate:"gte=1"`
	EventsBuffer int    `toml:"events_buffer" validate:"gte=1"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultPeriod: "week",
		},
		Planner: PlannerConfig{
			WorkHours:     8,
			BreakInterval: 2,
			ShiftType:     "day",
		},
		Forecast: ForecastConfig{
			Window:     10,
			MinPoints:  3,
			MonthSteps: 4,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			IntervalSecs: 15,
			EventsBuffer: 200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pickplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pickplan")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the default config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath reads and validates the config at path. Keys missing from
// the file keep their default values.
func LoadFromPath(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is user-chosen config location
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveToPath(ConfigPath(), cfg)
}

// SaveToPath validates cfg and writes it to path.
func SaveToPath(path string, cfg Config) error {
	if err := Validate(&cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is user-chosen config location
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// ExistsAt returns true if a config file exists at path.
func ExistsAt(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Exists returns true if a config file exists at the default path.
func Exists() bool {
	return ExistsAt(ConfigPath())
}
