package config

import "sort"

// Presets are complete run settings keyed by name. Inputs are left empty
// and filled from the command line.
var Presets = map[string]*Config{
	"smoke": {
		Integrator: "verlet", Dt: 0.0005, Steps: 100, Workers: 1,
		ValidateState: true, LogLevel: "debug",
		Output: OutputConfig{Stride: 10, RecordEvery: 1},
	},
	"equilibrate": {
		Integrator: "verlet", Dt: 0.001, Steps: 10000, Temperature: 300, Seed: 1,
		ValidateState: true, LogLevel: "info",
		Output: OutputConfig{Stride: 100, RecordEvery: 10},
	},
	"production": {
		Integrator: "verlet", Dt: 0.002, Steps: 500000, Temperature: 300, Seed: 1,
		LogLevel: "info",
		Output:   OutputConfig{Trajectory: "traj.zst", Stride: 500, RecordEvery: 50},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
