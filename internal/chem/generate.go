package chem

import (
	"fmt"
	"math/rand"
)

// Generate builds a table of up to n random rules over the given species
// and state counts. Duplicate draws are retried a bounded number of times,
// so a small rule space can yield fewer than n rules.
func Generate(rng *rand.Rand, species, states, n int) (*Table, error) {
	if species < 1 || species > 256 || states < 1 || states > 256 {
		return nil, fmt.Errorf("species and states must be in 1..256, got %d and %d", species, states)
	}
	if n < 0 {
		return nil, fmt.Errorf("rule count must not be negative, got %d", n)
	}

	t := NewTable()
	draw := func() Reactant {
		return Reactant{Species: uint8(rng.Intn(species)), State: uint8(rng.Intn(states))}
	}

	for attempts := 0; t.Len() < n && attempts < 20*n; attempts++ {
		left, right := draw(), draw()
		r := Rule{
			Kind:       Kind(rng.Intn(3)),
			Left:       left,
			Right:      right,
			StateLeft:  uint8(rng.Intn(states)),
			StateRight: uint8(rng.Intn(states)),
		}
		_ = t.Add(r)
	}
	return t, nil
}
