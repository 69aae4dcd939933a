package config

import "sort"

// Presets override the world section of the defaults.
var Presets = map[string]WorldConfig{
	"dilute": {
		Width: 200, Height: 200, Diameter: 5, Temperature: 1.0,
		Passes: 4, BondLength: 1.1, BondStiffness: 1.0,
		NumSpecies: 4, NumStates: 4, InitAtoms: 100,
	},
	"dense": {
		Width: 100, Height: 100, Diameter: 5, Temperature: 0.5,
		Passes: 12, BondLength: 1.1, BondStiffness: 1.0,
		NumSpecies: 2, NumStates: 4, InitAtoms: 300,
	},
	"still": {
		Width: 100, Height: 100, Diameter: 5, Temperature: 0,
		Passes: 8, BondLength: 1.1, BondStiffness: 1.0,
		NumSpecies: 1, NumStates: 2, InitAtoms: 1,
	},
}

// GetPreset returns the defaults with the named world section, or nil.
func GetPreset(name string) *Config {
	w, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.World = w
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
