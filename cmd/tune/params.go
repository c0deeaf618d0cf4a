// Package main tunes sensor parameters with CMA-ES so that autopilot runs
// hit a target warning rate and wall proximity.
package main

import (
	"fmt"

	"github.com/pthm-cable/arena/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "adjacent_radius_scale", Path: "sensors.adjacent.radius_scale", Min: 1, Max: 8, Default: 4},
			{Name: "ray_length_scale", Path: "sensors.wall.length_scale", Min: 1, Max: 10, Default: 5},
			{Name: "ray_length_pad", Path: "sensors.wall.length_pad", Min: 0, Max: 64, Default: 16},
			{Name: "base_velocity", Path: "entity.base_velocity", Min: 50, Max: 250, Default: 125},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(spec.Max, max(spec.Min, v[i]))
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg and refreshes its
// derived values. Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	clamped := pv.Clamp(values)

	cfg.Sensors.Adjacent.RadiusScale = clamped[0]
	cfg.Sensors.Wall.LengthScale = clamped[1]
	cfg.Sensors.Wall.LengthPad = clamped[2]
	cfg.Entity.BaseVelocity = clamped[3]

	if err := cfg.Refresh(); err != nil {
		return fmt.Errorf("applying parameters: %w", err)
	}
	return nil
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Sensors.Adjacent.RadiusScale,
		cfg.Sensors.Wall.LengthScale,
		cfg.Sensors.Wall.LengthPad,
		cfg.Entity.BaseVelocity,
	}
}
