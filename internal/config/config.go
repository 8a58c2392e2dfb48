// Package config loads the nxncube YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SeamusWaldron/nxncube"
	"github.com/SeamusWaldron/nxncube/internal/logging"
)

// Config is the full configuration.
type Config struct {
	Cube      CubeConfig      `yaml:"cube"`
	Animation AnimationConfig `yaml:"animation"`
	Input     InputConfig     `yaml:"input"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// CubeConfig selects the puzzle.
type CubeConfig struct {
	Size           int `yaml:"size"`
	ScrambleLength int `yaml:"scramble_length"` // 0 picks a length from the size
}

// AnimationConfig controls visual turns.
type AnimationConfig struct {
	Duration time.Duration `yaml:"duration"`
	Easing   string        `yaml:"easing"` // "ease-out" or "linear"
}

// InputConfig controls gestures, key bindings and inspection.
type InputConfig struct {
	DragThreshold float64           `yaml:"drag_threshold"`
	Inspection    time.Duration     `yaml:"inspection"`
	KeyBindings   map[string]string `yaml:"key_bindings,omitempty"`
}

// StorageConfig locates the solve database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the replication hub.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Metrics bool   `yaml:"metrics"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// Default returns a working configuration.
func Default() *Config {
	dbPath, err := DefaultPath("nxncube.db")
	if err != nil {
		dbPath = "nxncube.db"
	}
	return &Config{
		Cube: CubeConfig{Size: 3},
		Animation: AnimationConfig{
			Duration: nxncube.DefaultAnimationDuration,
			Easing:   "ease-out",
		},
		Input: InputConfig{
			DragThreshold: nxncube.DefaultDragThreshold,
			Inspection:    15 * time.Second,
		},
		Storage: StorageConfig{Path: dbPath},
		Server:  ServerConfig{Addr: ":8080", Metrics: true},
		Log:     LogConfig{Level: "info"},
	}
}

// DefaultPath returns name inside the per-user nxncube directory.
func DefaultPath(name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".nxncube", name), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for values the engine cannot use.
func (c *Config) Validate() error {
	var errs []error
	if c.Cube.Size < 2 {
		errs = append(errs, fmt.Errorf("cube.size must be at least 2, got %d", c.Cube.Size))
	}
	if c.Cube.ScrambleLength < 0 {
		errs = append(errs, fmt.Errorf("cube.scramble_length must not be negative"))
	}
	if c.Animation.Duration < 0 {
		errs = append(errs, fmt.Errorf("animation.duration must not be negative"))
	}
	if _, err := c.Easing(); err != nil {
		errs = append(errs, err)
	}
	if c.Input.DragThreshold < 0 {
		errs = append(errs, fmt.Errorf("input.drag_threshold must not be negative"))
	}
	if c.Input.Inspection < 0 {
		errs = append(errs, fmt.Errorf("input.inspection must not be negative"))
	}
	for key, token := range c.Input.KeyBindings {
		if _, err := nxncube.ParseMove(token); err != nil {
			errs = append(errs, fmt.Errorf("input.key_bindings[%q]: %w", key, err))
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// Easing returns the configured easing curve.
func (c *Config) Easing() (nxncube.Easing, error) {
	switch c.Animation.Easing {
	case "", "ease-out":
		return nxncube.EaseOutCubic, nil
	case "linear":
		return nxncube.Linear, nil
	default:
		return nil, fmt.Errorf("animation.easing: unknown curve %q", c.Animation.Easing)
	}
}

// ScrambleLength returns the configured scramble length, or a size-based
// default.
func (c *Config) ScrambleLength() int {
	if c.Cube.ScrambleLength > 0 {
		return c.Cube.ScrambleLength
	}
	switch {
	case c.Cube.Size <= 2:
		return 11
	case c.Cube.Size == 3:
		return 25
	default:
		return 20 * (c.Cube.Size - 2)
	}
}

// KeyBindings returns the configured bindings or the defaults.
func (c *Config) KeyBindings() map[string]string {
	if len(c.Input.KeyBindings) > 0 {
		return c.Input.KeyBindings
	}
	return nxncube.DefaultKeyBindings
}

// EngineOptions turns the configuration into engine options.
func (c *Config) EngineOptions() []nxncube.Option {
	opts := []nxncube.Option{
		nxncube.WithAnimationDuration(c.Animation.Duration),
		nxncube.WithDragThreshold(c.Input.DragThreshold),
	}
	if easing, err := c.Easing(); err == nil {
		opts = append(opts, nxncube.WithEasing(easing))
	}
	return opts
}

// LoggingConfig returns the logging configuration for service.
func (c *Config) LoggingConfig(service string) logging.Config {
	level, _ := logging.ParseLevel(c.Log.Level)
	return logging.Config{Level: level, LogDir: c.Log.Dir, Service: service}
}
