package world

import (
	"fmt"
	"math"
)

const (
	DefaultWidth         = 100.0
	DefaultHeight        = 100.0
	DefaultDiameter      = 5.0
	DefaultTemperature   = 0.5
	DefaultPasses        = 8
	DefaultBondLength    = 1.1
	DefaultBondStiffness = 1.0
	DefaultNumSpecies    = 4
	DefaultNumStates     = 4
)

// Config fixes a world's geometry and dynamics. The pass count and bond
// length are tunable defaults, not derived constants.
type Config struct {
	Width       float64
	Height      float64
	Diameter    float64
	Temperature float64
	// Seed 0 draws a seed from the clock.
	Seed int64
	// Passes is the number of collision passes per tick.
	Passes int
	// BondLength is the bond rest length as a multiple of Diameter.
	BondLength float64
	// BondStiffness is the fraction of a bond's length error removed per pass.
	BondStiffness float64
	NumSpecies    int
	NumStates     int
}

func DefaultConfig() Config {
	return Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		Diameter:      DefaultDiameter,
		Temperature:   DefaultTemperature,
		Passes:        DefaultPasses,
		BondLength:    DefaultBondLength,
		BondStiffness: DefaultBondStiffness,
		NumSpecies:    DefaultNumSpecies,
		NumStates:     DefaultNumStates,
	}
}

func (c Config) Validate() error {
	side := math.Min(c.Width, c.Height)
	switch {
	case !(c.Width > 0) || !(c.Height > 0):
		return fmt.Errorf("%w: size must be positive, got %gx%g", ErrInvalidConfig, c.Width, c.Height)
	case !(c.Diameter > 0) || c.Diameter > side:
		return fmt.Errorf("%w: diameter must be in (0, %g], got %g", ErrInvalidConfig, side, c.Diameter)
	case !(c.Temperature >= 0) || c.Temperature >= side/2:
		return fmt.Errorf("%w: temperature must be in [0, %g), got %g", ErrInvalidConfig, side/2, c.Temperature)
	case c.Passes < 1:
		return fmt.Errorf("%w: passes must be at least 1, got %d", ErrInvalidConfig, c.Passes)
	case !(c.BondLength > 0) || c.BondLength*c.Diameter >= side/2:
		return fmt.Errorf("%w: bond length %g too long for a %g plane", ErrInvalidConfig, c.BondLength, side)
	case !(c.BondStiffness >= 0) || c.BondStiffness > 1:
		return fmt.Errorf("%w: bond stiffness must be in [0, 1], got %g", ErrInvalidConfig, c.BondStiffness)
	case c.NumSpecies < 1 || c.NumSpecies > 256:
		return fmt.Errorf("%w: species count must be in [1, 256], got %d", ErrInvalidConfig, c.NumSpecies)
	case c.NumStates < 1 || c.NumStates > 256:
		return fmt.Errorf("%w: state count must be in [1, 256], got %d", ErrInvalidConfig, c.NumStates)
	}
	return nil
}
