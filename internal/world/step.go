package world

import (
	"fmt"
	"math"

	"github.com/san-kum/lifesim/internal/chem"
)

// overlapTolerance, as a fraction of the diameter, below which a pair counts
// as separated in TickStats.Overlaps.
const overlapTolerance = 1e-3

// Step advances the world by one tick. A tick always runs to completion
// unless a grid precondition fails, which indicates a bug or a bad config.
func (w *World) Step() error {
	w.tick++
	stats := TickStats{Tick: w.tick}

	if err := w.diffuse(); err != nil {
		return &StepError{Tick: w.tick, Phase: "diffuse", Err: err}
	}

	contacts, err := w.resolve()
	if err != nil {
		return &StepError{Tick: w.tick, Phase: "resolve", Err: err}
	}
	stats.Contacts = len(contacts)

	w.react(contacts, &stats)
	w.decompose(&stats)

	stats.Atoms = w.grid.Len()
	stats.Bonds = w.bonds.len()
	stats.Overlaps = w.grid.Overlaps(overlapTolerance * w.cfg.Diameter)
	w.last = stats

	w.logger.Debug("tick", "stats", stats)
	return nil
}

func (w *World) diffuse() error {
	t := w.cfg.Temperature
	for _, id := range w.grid.IDs() {
		dx := (w.rng.Float64()*2 - 1) * t
		dy := (w.rng.Float64()*2 - 1) * t
		if err := w.grid.Relocate(id, dx, dy); err != nil {
			return err
		}
	}
	return nil
}

// resolve runs the collision passes and returns every distinct pair seen
// touching, in the order first observed.
func (w *World) resolve() ([]Pair, error) {
	seen := make(map[Pair]struct{})
	var pairs []Pair

	for pass := 0; pass < w.cfg.Passes; pass++ {
		contacts, err := w.grid.Resolve()
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", pass, err)
		}
		for _, c := range contacts {
			p := Pair{c.A, c.B}
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				pairs = append(pairs, p)
			}
		}

		if err := w.relaxBonds(); err != nil {
			return nil, fmt.Errorf("pass %d bonds: %w", pass, err)
		}
	}
	return pairs, nil
}

// relaxBonds moves each bonded pair toward its rest length. Corrections are
// summed per atom and applied together, like collision corrections.
func (w *World) relaxBonds() error {
	if w.bonds.len() == 0 || w.cfg.BondStiffness == 0 {
		return nil
	}

	moves := make(map[uint32][2]float64)
	for _, p := range w.bonds.order {
		a, okA := w.grid.Get(p.A)
		b, okB := w.grid.Get(p.B)
		if !okA || !okB {
			return fmt.Errorf("bond %d-%d references a missing atom", p.A, p.B)
		}

		x1, y1 := a.Position()
		x2, y2 := b.Position()
		dx, dy := w.grid.Delta(x1, y1, x2, y2)
		dist := math.Hypot(dx, dy)

		ux, uy := 1.0, 0.0
		if dist > 0 {
			ux, uy = dx/dist, dy/dist
		}
		corr := w.cfg.BondStiffness * (dist - w.bonds.bonds[p].Rest) / 2
		if corr == 0 {
			continue
		}

		ma := moves[p.A]
		ma[0] += corr * ux
		ma[1] += corr * uy
		moves[p.A] = ma

		mb := moves[p.B]
		mb[0] -= corr * ux
		mb[1] -= corr * uy
		moves[p.B] = mb
	}
	return w.grid.ApplyMoves(moves)
}

func (w *World) react(pairs []Pair, stats *TickStats) {
	for _, p := range pairs {
		if w.bonds.has(p.A, p.B) {
			continue
		}
		a, _ := w.grid.Get(p.A)
		b, _ := w.grid.Get(p.B)

		out, ok := w.table.Lookup(a.Reactant(), b.Reactant())
		if !ok {
			continue
		}

		switch out.Kind {
		case chem.Combine:
			a.SetState(out.First)
			b.SetState(out.Second)
			w.bonds.add(Bond{Pair: p, Rest: w.cfg.BondLength * w.cfg.Diameter})
			stats.Combines++
			w.logger.Debug("combine", "a", p.A, "b", p.B, "states", []uint8{out.First, out.Second})
		case chem.Excite:
			a.SetState(out.First)
			b.SetState(out.Second)
			stats.Excites++
		}
	}
}

func (w *World) decompose(stats *TickStats) {
	for _, bond := range w.bonds.list() {
		a, _ := w.grid.Get(bond.A)
		b, _ := w.grid.Get(bond.B)

		out, ok := w.table.LookupKind(chem.Decompose, a.Reactant(), b.Reactant())
		if !ok {
			continue
		}
		a.SetState(out.First)
		b.SetState(out.Second)
		w.bonds.remove(bond.A, bond.B)
		stats.Decomposes++
		w.logger.Debug("decompose", "a", bond.A, "b", bond.B, "states", []uint8{out.First, out.Second})
	}
}
