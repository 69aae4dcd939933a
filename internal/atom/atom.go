// Package atom defines the point particle simulated by the world.
package atom

import "github.com/san-kum/lifesim/internal/chem"

// Atom is a point particle with an immutable species and a mutable state.
type Atom struct {
	id       uint32
	species  uint8
	state    uint8
	x, y     float64
	diameter float64
}

func New(id uint32, species, state uint8, x, y, diameter float64) *Atom {
	return &Atom{id: id, species: species, state: state, x: x, y: y, diameter: diameter}
}

func (a *Atom) ID() uint32                   { return a.id }
func (a *Atom) Species() uint8               { return a.species }
func (a *Atom) State() uint8                 { return a.state }
func (a *Atom) Position() (float64, float64) { return a.x, a.y }
func (a *Atom) Diameter() float64            { return a.diameter }
func (a *Atom) Radius() float64              { return a.diameter / 2 }

// Reactant is the chemistry key of the atom's current species and state.
func (a *Atom) Reactant() chem.Reactant {
	return chem.Reactant{Species: a.species, State: a.state}
}

// SetState changes the atom's state. Species cannot change.
func (a *Atom) SetState(s uint8) { a.state = s }

// Shift moves the atom by (dx, dy) on a w×h torus. Callers keep |dx| < w and
// |dy| < h, so one period of correction is enough.
func (a *Atom) Shift(dx, dy, w, h float64) {
	a.x = wrap(a.x+dx, w)
	a.y = wrap(a.y+dy, h)
}

func wrap(v, size float64) float64 {
	if v < 0 {
		v += size
	} else if v >= size {
		v -= size
	}
	// v+size can round up to exactly size for tiny negative v
	if v >= size {
		v = 0
	}
	return v
}
