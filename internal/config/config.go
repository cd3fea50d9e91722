package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultQuality      = "medium"
	DefaultUpdateRate   = "medium"
	DefaultZoomStep     = 0.2
	DefaultFitPadding   = 0.1
	DefaultCoarsePad    = 0.3
	DefaultTickPadding  = 0.05
	DefaultDebounceMs   = 50
	DefaultChartWidth   = 80
	DefaultChartHeight  = 24
	DefaultLogLevel     = "INFO"
	EnvPrefix           = "ODEVIEW"
	defaultDataDirName  = ".odeview"
	defaultConfigSuffix = "config.yaml"
)

type Config struct {
	Quality    string `yaml:"quality" mapstructure:"quality"`
	UpdateRate string `yaml:"update_rate" mapstructure:"update_rate"`
	// PointBudget overrides the quality preset when positive.
	PointBudget int `yaml:"point_budget" mapstructure:"point_budget"`
	// UpdateIntervalMs overrides the update rate preset when positive.
	UpdateIntervalMs int           `yaml:"update_interval_ms" mapstructure:"update_interval_ms"`
	ZoomStep         float64       `yaml:"zoom_step" mapstructure:"zoom_step"`
	Padding          PaddingConfig `yaml:"padding" mapstructure:"padding"`
	Chart            ChartConfig   `yaml:"chart" mapstructure:"chart"`
	Logging          LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Watch            WatchConfig   `yaml:"watch" mapstructure:"watch"`
	DataDir          string        `yaml:"data_dir" mapstructure:"data_dir"`
}

// PaddingConfig holds the padding fractions applied to the viewport.
type PaddingConfig struct {
	Fit    float64 `yaml:"fit" mapstructure:"fit"`
	Coarse float64 `yaml:"coarse" mapstructure:"coarse"`
	Tick   float64 `yaml:"tick" mapstructure:"tick"`
}

type ChartConfig struct {
	Width  int `yaml:"width" mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`
}

type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	// File is the log destination; empty disables logging inside the TUI.
	File string `yaml:"file" mapstructure:"file"`
}

type WatchConfig struct {
	Dir        string `yaml:"dir" mapstructure:"dir"`
	DebounceMs int    `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

func Default() *Config {
	return &Config{
		Quality:    DefaultQuality,
		UpdateRate: DefaultUpdateRate,
		ZoomStep:   DefaultZoomStep,
		Padding: PaddingConfig{
			Fit:    DefaultFitPadding,
			Coarse: DefaultCoarsePad,
			Tick:   DefaultTickPadding,
		},
		Chart: ChartConfig{
			Width:  DefaultChartWidth,
			Height: DefaultChartHeight,
		},
		Logging: LoggingConfig{Level: DefaultLogLevel},
		Watch:   WatchConfig{DebounceMs: DefaultDebounceMs},
		DataDir: DefaultDataDir(),
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("quality", d.Quality)
	v.SetDefault("update_rate", d.UpdateRate)
	v.SetDefault("point_budget", d.PointBudget)
	v.SetDefault("update_interval_ms", d.UpdateIntervalMs)
	v.SetDefault("zoom_step", d.ZoomStep)

	v.SetDefault("padding.fit", d.Padding.Fit)
	v.SetDefault("padding.coarse", d.Padding.Coarse)
	v.SetDefault("padding.tick", d.Padding.Tick)

	v.SetDefault("chart.width", d.Chart.Width)
	v.SetDefault("chart.height", d.Chart.Height)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)

	v.SetDefault("watch.dir", d.Watch.Dir)
	v.SetDefault("watch.debounce_ms", d.Watch.DebounceMs)

	v.SetDefault("data_dir", d.DataDir)
}

// NewViper returns a viper instance with defaults and ODEVIEW_* environment
// overrides registered.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (if non-empty) over the defaults and validates the result.
func Load(path string) (*Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper unmarshals and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Validate returns every invalid field joined into one error.
func (c *Config) Validate() error {
	var errs []error

	if c.PointBudget < 0 {
		errs = append(errs, fieldError("point_budget", c.PointBudget, "must not be negative"))
	}
	if c.PointBudget == 0 {
		if _, ok := QualityPresets[c.Quality]; !ok {
			errs = append(errs, fieldError("quality", c.Quality, "unknown preset, want one of "+strings.Join(QualityNames(), ", ")))
		}
	}
	if c.UpdateIntervalMs < 0 {
		errs = append(errs, fieldError("update_interval_ms", c.UpdateIntervalMs, "must not be negative"))
	}
	if c.UpdateIntervalMs == 0 {
		if _, ok := UpdatePresets[c.UpdateRate]; !ok {
			errs = append(errs, fieldError("update_rate", c.UpdateRate, "unknown preset, want one of "+strings.Join(UpdateRateNames(), ", ")))
		}
	}
	if !(c.ZoomStep > 0 && c.ZoomStep < 1) {
		errs = append(errs, fieldError("zoom_step", c.ZoomStep, "must be in (0, 1)"))
	}
	for name, p := range map[string]float64{
		"padding.fit":    c.Padding.Fit,
		"padding.coarse": c.Padding.Coarse,
		"padding.tick":   c.Padding.Tick,
	} {
		if math.IsNaN(p) || p < 0 {
			errs = append(errs, fieldError(name, p, "must be a non-negative fraction"))
		}
	}
	if c.Chart.Width < 10 || c.Chart.Height < 5 {
		errs = append(errs, fieldError("chart", fmt.Sprintf("%dx%d", c.Chart.Width, c.Chart.Height), "must be at least 10x5"))
	}
	switch strings.ToUpper(c.Logging.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fieldError("logging.level", c.Logging.Level, "want DEBUG, INFO, WARN or ERROR"))
	}
	if c.Watch.DebounceMs < 0 {
		errs = append(errs, fieldError("watch.debounce_ms", c.Watch.DebounceMs, "must not be negative"))
	}

	return errors.Join(errs...)
}

// Budget returns the effective point budget per series.
func (c *Config) Budget() int {
	if c.PointBudget > 0 {
		return c.PointBudget
	}
	if n, ok := QualityPresets[c.Quality]; ok {
		return n
	}
	return QualityPresets[DefaultQuality]
}

// Interval returns the effective render tick interval.
func (c *Config) Interval() time.Duration {
	if c.UpdateIntervalMs > 0 {
		return time.Duration(c.UpdateIntervalMs) * time.Millisecond
	}
	if d, ok := UpdatePresets[c.UpdateRate]; ok {
		return d
	}
	return UpdatePresets[DefaultUpdateRate]
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// DefaultDataDir is ~/.odeview, or .odeview when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDataDirName
	}
	return filepath.Join(home, defaultDataDirName)
}

func DefaultConfigFile() string {
	return filepath.Join(DefaultDataDir(), defaultConfigSuffix)
}

// ValidationError is a single invalid field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

func fieldError(field string, value any, msg string) error {
	return ValidationError{Field: field, Value: value, Message: msg}
}
