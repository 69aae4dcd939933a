package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/lifesim/internal/world"
)

const (
	DefaultInitAtoms = 100
	DefaultTicks     = 1000
	DefaultChemPath  = "./chemistry.cfg"
	DefaultDataDir   = ".lifesim"
	DefaultLogLevel  = "info"
	DefaultLogEvery  = 100
)

type Config struct {
	World     WorldConfig     `yaml:"world"`
	Chemistry ChemistryConfig `yaml:"chemistry"`
	Run       RunConfig       `yaml:"run"`
	Log       LogConfig       `yaml:"log"`
}

type WorldConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Diameter      float64 `yaml:"diameter"`
	Temperature   float64 `yaml:"temperature"`
	Seed          int64   `yaml:"seed"`
	Passes        int     `yaml:"passes"`
	BondLength    float64 `yaml:"bond_length"`
	BondStiffness float64 `yaml:"bond_stiffness"`
	NumSpecies    int     `yaml:"num_species"`
	NumStates     int     `yaml:"num_states"`
	InitAtoms     int     `yaml:"init_atoms"`
}

type ChemistryConfig struct {
	Path string `yaml:"path"`
}

type RunConfig struct {
	Ticks   int    `yaml:"ticks"`
	DataDir string `yaml:"data_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Every logs tick statistics every N ticks; 0 disables.
	Every int `yaml:"every"`
}

func DefaultConfig() *Config {
	w := world.DefaultConfig()
	return &Config{
		World: WorldConfig{
			Width:         w.Width,
			Height:        w.Height,
			Diameter:      w.Diameter,
			Temperature:   w.Temperature,
			Seed:          w.Seed,
			Passes:        w.Passes,
			BondLength:    w.BondLength,
			BondStiffness: w.BondStiffness,
			NumSpecies:    w.NumSpecies,
			NumStates:     w.NumStates,
			InitAtoms:     DefaultInitAtoms,
		},
		Chemistry: ChemistryConfig{Path: DefaultChemPath},
		Run:       RunConfig{Ticks: DefaultTicks, DataDir: DefaultDataDir},
		Log:       LogConfig{Level: DefaultLogLevel, Every: DefaultLogEvery},
	}
}

// Load reads a YAML file over the defaults; keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WorldConfig converts the world section for world.New.
func (c *Config) WorldConfig() world.Config {
	return world.Config{
		Width:         c.World.Width,
		Height:        c.World.Height,
		Diameter:      c.World.Diameter,
		Temperature:   c.World.Temperature,
		Seed:          c.World.Seed,
		Passes:        c.World.Passes,
		BondLength:    c.World.BondLength,
		BondStiffness: c.World.BondStiffness,
		NumSpecies:    c.World.NumSpecies,
		NumStates:     c.World.NumStates,
	}
}

func (c *Config) Validate() error {
	if err := c.WorldConfig().Validate(); err != nil {
		return err
	}
	if c.World.InitAtoms < 0 {
		return fmt.Errorf("init_atoms must not be negative, got %d", c.World.InitAtoms)
	}
	if c.Run.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", c.Run.Ticks)
	}
	if c.Chemistry.Path == "" {
		return fmt.Errorf("chemistry path is empty")
	}
	return nil
}

// SweepParams names the world settings SetParam accepts.
var SweepParams = []string{
	"width", "height", "diameter", "temperature", "passes",
	"bond_length", "bond_stiffness", "init_atoms",
}

// SetParam sets a numeric world setting by its YAML name. Integer settings
// truncate v.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "width":
		c.World.Width = v
	case "height":
		c.World.Height = v
	case "diameter":
		c.World.Diameter = v
	case "temperature":
		c.World.Temperature = v
	case "passes":
		c.World.Passes = int(v)
	case "bond_length":
		c.World.BondLength = v
	case "bond_stiffness":
		c.World.BondStiffness = v
	case "init_atoms":
		c.World.InitAtoms = int(v)
	default:
		return fmt.Errorf("unknown parameter %q (available: %v)", name, SweepParams)
	}
	return nil
}
