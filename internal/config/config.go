// Package config handles loading and resolving padwatch configuration.
// Resolution order (first non-empty value wins):
//  1. CLI flags
//  2. Environment variables (PADWATCH_*)
//  3. config.json in the current working directory
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultConfigFile = "config.json"
	DefaultSource     = SourceSpaceX
	DefaultTimeout    = 30 * time.Second
	DefaultRate       = 2.0
	DefaultListenAddr = ":8645"

	// DefaultRefreshInterval is the recurring full-refresh period.
	DefaultRefreshInterval = 120 * time.Minute
	// MinRefreshInterval is the floor below which the refresh interval is
	// clamped, protecting the upstream API.
	MinRefreshInterval = 5 * time.Minute
	// DefaultHoursInactive sizes the inactivity window on each side.
	DefaultHoursInactive = 24

	EnvDBPath   = "PADWATCH_DB_PATH"
	EnvListen   = "PADWATCH_LISTEN"
	EnvSource   = "PADWATCH_SOURCE"
	EnvTimezone = "PADWATCH_TZ"
)

// Source selection constants.
const (
	SourceSpaceX = "spacex"
	SourceLL2    = "ll2"
)

// File is the on-disk representation of config.json.
type File struct {
	Source                 string  `json:"source"`
	BaseURL                string  `json:"base_url"`
	Timeout                string  `json:"timeout"`
	Rate                   float64 `json:"rate"`
	DBPath                 string  `json:"db_path"`
	ListenAddr             string  `json:"listen_addr"`
	Timezone               string  `json:"timezone"`
	RefreshIntervalMinutes int     `json:"refresh_interval_minutes"`
	HoursInactive          int     `json:"hours_inactive"`
	ClearWhenInactive      bool    `json:"clear_when_inactive"`
	ShowName               *bool   `json:"show_name"`
	ShowLocality           *bool   `json:"show_locality"`
	DashboardLayout        string  `json:"dashboard_layout"`
	TextColor              string  `json:"text_color"`
}

// Config is the fully-resolved runtime configuration.
// All callers use this struct; the File is only read during loading.
type Config struct {
	Source          string
	BaseURL         string
	Timeout         time.Duration
	Rate            float64
	DBPath          string
	ListenAddr      string
	Location        *time.Location
	RefreshInterval time.Duration
	HoursInactive   time.Duration

	ClearWhenInactive bool
	ShowName          bool
	ShowLocality      bool
	DashboardLayout   string
	TextColor         string

	ConfigPath string // path of the config.json that was loaded (empty if none found)

	// Runtime overrides set from CLI flags after Load()
	Quiet   bool
	Verbose bool
	Debug   bool
}

// Load resolves configuration from all sources.
func Load() (*Config, error) {
	cfg := &Config{
		Source:          DefaultSource,
		Timeout:         DefaultTimeout,
		Rate:            DefaultRate,
		ListenAddr:      DefaultListenAddr,
		Location:        time.Local,
		RefreshInterval: DefaultRefreshInterval,
		HoursInactive:   DefaultHoursInactive * time.Hour,
		ShowName:        true,
		ShowLocality:    true,
		DashboardLayout: "compact",
		TextColor:       "#ffffff",
	}

	// Layer 1: config.json (lowest priority)
	if f, path, err := loadFile(); err == nil {
		if err := applyFile(cfg, f, path); err != nil {
			return nil, err
		}
	}

	// Layer 2: environment variables
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(EnvSource); v != "" {
		cfg.Source = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvTimezone, v, err)
		}
		cfg.Location = loc
	}

	// Set default DB path if still unset
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.DBPath = filepath.Join(home, ".padwatch", "padwatch.db")
		}
	}

	cfg.clamp()
	return cfg, nil
}

// Validate returns an error if resolved values are unusable.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceSpaceX, SourceLL2:
	default:
		return fmt.Errorf("unknown source %q (expected %q or %q)", c.Source, SourceSpaceX, SourceLL2)
	}
	return nil
}

// clamp enforces floors and defaults on resolved values.
func (c *Config) clamp() {
	if c.RefreshInterval < MinRefreshInterval {
		c.RefreshInterval = MinRefreshInterval
	}
	if c.HoursInactive <= 0 {
		c.HoursInactive = DefaultHoursInactive * time.Hour
	}
	if c.Rate <= 0 {
		c.Rate = DefaultRate
	}
}

// loadFile attempts to read config.json from the current working directory.
func loadFile() (*File, string, error) {
	path, err := filepath.Abs(DefaultConfigFile)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("config.json not found at %s", path)
		}
		return nil, "", fmt.Errorf("reading config.json: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, "", fmt.Errorf("parsing config.json: %w", err)
	}
	return &f, path, nil
}

// applyFile copies values from a parsed File into cfg,
// skipping any fields that are zero/empty.
func applyFile(cfg *Config, f *File, path string) error {
	cfg.ConfigPath = path
	if f.Source != "" {
		cfg.Source = f.Source
	}
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.Timeout != "" {
		if d, err := time.ParseDuration(f.Timeout); err == nil {
			cfg.Timeout = d
		}
	}
	if f.Rate > 0 {
		cfg.Rate = f.Rate
	}
	if f.DBPath != "" {
		cfg.DBPath = f.DBPath
	}
	if f.ListenAddr != "" {
		cfg.ListenAddr = f.ListenAddr
	}
	if f.Timezone != "" {
		loc, err := time.LoadLocation(f.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", f.Timezone, err)
		}
		cfg.Location = loc
	}
	if f.RefreshIntervalMinutes > 0 {
		cfg.RefreshInterval = time.Duration(f.RefreshIntervalMinutes) * time.Minute
	}
	if f.HoursInactive > 0 {
		cfg.HoursInactive = time.Duration(f.HoursInactive) * time.Hour
	}
	cfg.ClearWhenInactive = f.ClearWhenInactive
	if f.ShowName != nil {
		cfg.ShowName = *f.ShowName
	}
	if f.ShowLocality != nil {
		cfg.ShowLocality = *f.ShowLocality
	}
	if f.DashboardLayout != "" {
		cfg.DashboardLayout = f.DashboardLayout
	}
	if f.TextColor != "" {
		cfg.TextColor = f.TextColor
	}
	return nil
}

// Template returns a File populated with sensible defaults, suitable for
// writing an initial config.json via `padwatch config init`.
func Template() File {
	showName := true
	showLocality := true
	return File{
		Source:                 DefaultSource,
		Timeout:                "30s",
		Rate:                   DefaultRate,
		ListenAddr:             DefaultListenAddr,
		Timezone:               "UTC",
		RefreshIntervalMinutes: int(DefaultRefreshInterval / time.Minute),
		HoursInactive:          DefaultHoursInactive,
		ClearWhenInactive:      false,
		ShowName:               &showName,
		ShowLocality:           &showLocality,
		DashboardLayout:        "compact",
		TextColor:              "#ffffff",
	}
}

// WriteFile serialises a File to the given path.
func WriteFile(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}
