package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 0.0005
	DefaultSteps       = 1000
	DefaultStride      = 10
	DefaultRecordEvery = 1
	DefaultWorkers     = 1
	DefaultIntegrator  = "verlet"
	DefaultLogLevel    = "info"
)

// Config describes one simulation run. Paths are relative to the working
// directory.
type Config struct {
	Topology      string       `yaml:"topology" toml:"topology"`
	Coordinates   string       `yaml:"coordinates" toml:"coordinates"`
	Integrator    string       `yaml:"integrator" toml:"integrator"`
	Dt            float64      `yaml:"dt" toml:"dt"`
	Steps         int          `yaml:"steps" toml:"steps"`
	Seed          int64        `yaml:"seed" toml:"seed"`
	Temperature   float64      `yaml:"temperature" toml:"temperature"`
	Workers       int          `yaml:"workers" toml:"workers"`
	ValidateState bool         `yaml:"validate_state" toml:"validate_state"`
	LogLevel      string       `yaml:"log_level" toml:"log_level"`
	Output        OutputConfig `yaml:"output" toml:"output"`
}

// OutputConfig controls what a run writes.
type OutputConfig struct {
	Trajectory  string `yaml:"trajectory" toml:"trajectory"`
	Stride      int    `yaml:"stride" toml:"stride"`
	RecordEvery int    `yaml:"record_every" toml:"record_every"`
	Append      bool   `yaml:"append" toml:"append"`
	DataDir     string `yaml:"data_dir" toml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator:    DefaultIntegrator,
		Dt:            DefaultDt,
		Steps:         DefaultSteps,
		Workers:       DefaultWorkers,
		ValidateState: true,
		LogLevel:      DefaultLogLevel,
		Output: OutputConfig{
			Stride:      DefaultStride,
			RecordEvery: DefaultRecordEvery,
		},
	}
}

// Load reads a config file on top of DefaultConfig. Files ending in .toml
// are decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if isTOML(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := toml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg in the format implied by the file extension.
func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(*cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Dt <= 0 {
		errs = append(errs, fmt.Errorf("dt must be positive, got %g", c.Dt))
	}
	if c.Steps < 0 {
		errs = append(errs, fmt.Errorf("steps must be non-negative, got %d", c.Steps))
	}
	if c.Output.Stride <= 0 {
		errs = append(errs, fmt.Errorf("output stride must be positive, got %d", c.Output.Stride))
	}
	if c.Output.RecordEvery < 0 {
		errs = append(errs, fmt.Errorf("record_every must be non-negative, got %d", c.Output.RecordEvery))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be non-negative, got %d", c.Workers))
	}
	if c.Temperature < 0 {
		errs = append(errs, fmt.Errorf("temperature must be non-negative, got %g", c.Temperature))
	}
	return errors.Join(errs...)
}

// Resolve makes relative input and output paths relative to dir.
func (c *Config) Resolve(dir string) {
	for _, p := range []*string{&c.Topology, &c.Coordinates, &c.Output.Trajectory} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
