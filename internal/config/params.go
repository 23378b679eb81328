package config

import (
	"fmt"
	"math"
)

// ParamNames lists the numeric settings SetParam accepts.
var ParamNames = []string{"dt", "steps", "seed", "temperature", "workers", "stride"}

// SetParam sets a numeric setting by name, as used by sweeps and grid
// searches. Integer settings are rounded.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "dt":
		c.Dt = v
	case "steps":
		c.Steps = int(math.Round(v))
	case "seed":
		c.Seed = int64(math.Round(v))
	case "temperature":
		c.Temperature = v
	case "workers":
		c.Workers = int(math.Round(v))
	case "stride":
		c.Output.Stride = int(math.Round(v))
	default:
		return fmt.Errorf("unknown parameter: %s (available: %v)", name, ParamNames)
	}
	return nil
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
