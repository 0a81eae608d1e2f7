package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidFrameInterval = errors.New("frame interval must be positive")
	ErrInvalidFixedStep     = errors.New("physics fixed step must not be negative")
)

// Config is the runtime configuration loaded from YAML.
type Config struct {
	Log       LogConfig       `json:"log" yaml:"log"`
	Frame     FrameConfig     `json:"frame" yaml:"frame"`
	Physics   PhysicsConfig   `json:"physics" yaml:"physics"`
	Inspector InspectorConfig `json:"inspector" yaml:"inspector"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type FrameConfig struct {
	// Interval between host frame callbacks.
	Interval time.Duration `json:"interval" yaml:"interval"`
}

type PhysicsConfig struct {
	Gravity [3]float64 `json:"gravity" yaml:"gravity"`
	// FixedStep is the simulation step in seconds; 0 steps by the frame delta.
	FixedStep float64 `json:"fixed_step" yaml:"fixed_step"`
	// StickySimulation keeps stepping once any non-static body has existed.
	StickySimulation bool `json:"sticky_simulation" yaml:"sticky_simulation"`
}

type InspectorConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr" yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:   LogConfig{Level: "info"},
		Frame: FrameConfig{Interval: time.Second / 60},
		Physics: PhysicsConfig{
			Gravity:   [3]float64{0, -9.81, 0},
			FixedStep: 1.0 / 60.0,
		},
		Inspector: InspectorConfig{Addr: "127.0.0.1:7070"},
	}
}

// Validate checks the configuration for values the runtime cannot work with.
func (c *Config) Validate() error {
	if c.Frame.Interval <= 0 {
		return ErrInvalidFrameInterval
	}
	if c.Physics.FixedStep < 0 {
		return ErrInvalidFixedStep
	}
	return nil
}

// LoadYAML decodes YAML from r on top of Default.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads a YAML file. An empty path yields Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}
