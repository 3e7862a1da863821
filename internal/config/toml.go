// Package config provides configuration helpers and TOML parsing.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/runboard/internal/model"
)

const (
	DefaultSmooth     = 3
	DefaultPlotHeight = 10
	DefaultMaxBytes   = 10 << 20
	DefaultLogLevel   = "info"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Dashboard DashboardConfig `toml:"dashboard"`
	Log       LogConfig       `toml:"log"`
}

// DashboardConfig maps dashboard and report settings.
type DashboardConfig struct {
	Runner     *string `toml:"runner"`
	Smooth     *int    `toml:"smooth"`
	PlotHeight *int    `toml:"plot-height"`
	Color      *bool   `toml:"color"`
	History    *bool   `toml:"history"`
	MaxBytes   *int64  `toml:"max-bytes"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no command could use.
func (c FileConfig) Validate() error {
	var errs []error
	if err := Check(c.Dashboard.Resolve(Defaults())); err != nil {
		errs = append(errs, fmt.Errorf("dashboard: %w", err))
	}
	if c.Log.Level != nil {
		if _, err := log.ParseLevel(*c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level %q: %w", *c.Log.Level, err))
		}
	}
	return errors.Join(errs...)
}

// Check validates resolved dashboard settings, naming each bad key.
func Check(cfg model.DashboardConfig) error {
	var errs []error
	if cfg.Smooth < 1 {
		errs = append(errs, fmt.Errorf("smooth must be >= 1"))
	}
	if cfg.PlotHeight < 3 {
		errs = append(errs, fmt.Errorf("plot-height must be >= 3"))
	}
	if cfg.MaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("max-bytes must be > 0"))
	}
	return errors.Join(errs...)
}

// Defaults returns the dashboard settings used when nothing is configured.
func Defaults() model.DashboardConfig {
	return model.DashboardConfig{
		Runner:     model.AllRunners,
		Smooth:     DefaultSmooth,
		PlotHeight: DefaultPlotHeight,
		Color:      true,
		History:    true,
		MaxBytes:   DefaultMaxBytes,
	}
}

// Resolve overlays the values set in the file onto base.
func (d DashboardConfig) Resolve(base model.DashboardConfig) model.DashboardConfig {
	if d.Runner != nil {
		base.Runner = model.Selection(*d.Runner).Normalize()
	}
	if d.Smooth != nil {
		base.Smooth = *d.Smooth
	}
	if d.PlotHeight != nil {
		base.PlotHeight = *d.PlotHeight
	}
	if d.Color != nil {
		base.Color = *d.Color
	}
	if d.History != nil {
		base.History = *d.History
	}
	if d.MaxBytes != nil {
		base.MaxBytes = *d.MaxBytes
	}
	return base
}

// LevelName returns the configured log level or the default.
func (l LogConfig) LevelName() string {
	if l.Level == nil || *l.Level == "" {
		return DefaultLogLevel
	}
	return *l.Level
}

// FilePath returns the configured log file or the default location.
func (l LogConfig) FilePath() string {
	if l.File == nil || *l.File == "" {
		return DefaultLogPath()
	}
	return *l.File
}
