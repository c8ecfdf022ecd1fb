// Package config provides configuration loading and validation for the
// progress indicators.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"taskprogress/internal/progress"
	"taskprogress/internal/spinner"
)

// Config represents the configuration file.
type Config struct {
	ShowIntermediateMessages *bool         `yaml:"show_intermediate_messages"`
	ShowFinishedTasks        *bool         `yaml:"show_finished_tasks"`
	Output                   string        `yaml:"output"`
	AutoClose                bool          `yaml:"auto_close"`
	Color                    string        `yaml:"color"`
	TickInterval             Duration      `yaml:"tick_interval"`
	FrameInterval            Duration      `yaml:"frame_interval"`
	Spinner                  SpinnerConfig `yaml:"spinner"`
}

// SpinnerConfig selects the spinner given to new spinner tasks. Frames, when
// set, take precedence over Preset.
type SpinnerConfig struct {
	Preset string   `yaml:"preset"`
	Frames []string `yaml:"frames"`
	Mode   string   `yaml:"mode"`
}

// Duration is a time.Duration written as a Go duration string ("250ms").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// DefaultConfigFile is the config file path relative to the XDG config
// directories.
var DefaultConfigFile = filepath.Join("taskprogress", "config.yaml")

// Default values for optional configuration fields.
const (
	DefaultOutput        = "ansi"
	DefaultColor         = "auto"
	DefaultSpinnerPreset = "default"
	DefaultTickInterval  = progress.DefaultTickInterval
	DefaultFrameInterval = progress.DefaultFrameInterval
)

// DefaultPath returns where the config file lives in the user's config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, DefaultConfigFile)
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads and parses the configuration from the specified file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses a configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault searches the XDG config directories for the config file. It
// returns the defaults and an empty path when there is none.
func LoadDefault() (*Config, string, error) {
	path, err := xdg.SearchConfigFile(DefaultConfigFile)
	if err != nil {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// applyDefaults sets default values for optional configuration fields.
func (c *Config) applyDefaults() {
	if c.ShowIntermediateMessages == nil {
		c.ShowIntermediateMessages = ptr(true)
	}
	if c.ShowFinishedTasks == nil {
		c.ShowFinishedTasks = ptr(true)
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Color == "" {
		c.Color = DefaultColor
	}
	if c.TickInterval == 0 {
		c.TickInterval = Duration(DefaultTickInterval)
	}
	if c.FrameInterval == 0 {
		c.FrameInterval = Duration(DefaultFrameInterval)
	}
	if c.Spinner.Preset == "" && len(c.Spinner.Frames) == 0 {
		c.Spinner.Preset = DefaultSpinnerPreset
	}
}

// validate checks that every field holds a known value.
func (c *Config) validate() error {
	var errs []error
	if _, err := progress.ParseOutput(c.Output); err != nil {
		errs = append(errs, fmt.Errorf("output: %w", err))
	}
	if _, err := progress.ParseColorMode(c.Color); err != nil {
		errs = append(errs, fmt.Errorf("color: %w", err))
	}
	if c.TickInterval < 0 {
		errs = append(errs, errors.New("tick_interval must be positive"))
	}
	if c.FrameInterval < 0 {
		errs = append(errs, errors.New("frame_interval must be positive"))
	}
	if _, err := c.spinner(); err != nil {
		errs = append(errs, fmt.Errorf("spinner: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Format converts the configuration into a render format.
func (c *Config) Format() progress.Format {
	f := progress.DefaultFormat()
	if c.ShowIntermediateMessages != nil {
		f.ShowIntermediateMessages = *c.ShowIntermediateMessages
	}
	if c.ShowFinishedTasks != nil {
		f.ShowFinishedTasks = *c.ShowFinishedTasks
	}
	f.AutoClose = c.AutoClose
	// Both were checked by validate.
	f.Output, _ = progress.ParseOutput(c.Output)
	f.Color, _ = progress.ParseColorMode(c.Color)
	return f
}

// Options returns the indicator options for the timing and the spinner.
func (c *Config) Options() []progress.Option {
	opts := []progress.Option{
		progress.WithTickInterval(time.Duration(c.TickInterval)),
		progress.WithFrameInterval(time.Duration(c.FrameInterval)),
	}
	if s, err := c.spinner(); err == nil {
		opts = append(opts, progress.WithDefaultSpinner(s))
	}
	return opts
}

func (c *Config) spinner() (spinner.Spinner, error) {
	if len(c.Spinner.Frames) > 0 {
		mode, err := spinner.ParseMode(c.Spinner.Mode)
		if err != nil {
			return spinner.Spinner{}, err
		}
		return spinner.New(c.Spinner.Frames, mode)
	}

	name := c.Spinner.Preset
	if name == "" {
		name = DefaultSpinnerPreset
	}
	s, err := spinner.Preset(name)
	if err != nil {
		return spinner.Spinner{}, err
	}
	if c.Spinner.Mode == "" {
		return s, nil
	}
	mode, err := spinner.ParseMode(c.Spinner.Mode)
	if err != nil {
		return spinner.Spinner{}, err
	}
	return spinner.New(s.Frames(), mode)
}

func ptr[T any](v T) *T {
	return &v
}
