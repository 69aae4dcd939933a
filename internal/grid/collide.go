package grid

import (
	"fmt"
	"math"
)

// Contact is a pair of bodies found touching or overlapping. A < B.
type Contact struct {
	A, B     uint32
	Distance float64
	Overlap  float64 // sum of radii minus distance
}

type pairFunc func(a, b uint32, dx, dy, dist, sumRadii float64)

// eachPair visits every unordered pair within touching distance exactly once,
// lower id first, in ascending order of the lower id.
func (g *Grid[T]) eachPair(fn pairFunc) {
	for _, id := range g.IDs() {
		obj := g.objs[id]
		x1, y1 := obj.Position()
		r1 := obj.Diameter() / 2

		for _, c := range g.neighborhood(g.lookup[id]) {
			for _, nid := range g.cells[c] {
				if nid <= id {
					continue
				}
				other := g.objs[nid]
				x2, y2 := other.Position()
				dx, dy := g.Delta(x1, y1, x2, y2)
				dist := math.Hypot(dx, dy)
				sum := r1 + other.Diameter()/2
				if dist <= sum {
					fn(id, nid, dx, dy, dist, sum)
				}
			}
		}
	}
}

// Contacts lists the touching pairs without moving anything.
func (g *Grid[T]) Contacts() []Contact {
	var out []Contact
	g.eachPair(func(a, b uint32, _, _, dist, sum float64) {
		out = append(out, Contact{A: a, B: b, Distance: dist, Overlap: sum - dist})
	})
	return out
}

// Overlaps counts pairs whose overlap exceeds tolerance.
func (g *Grid[T]) Overlaps(tolerance float64) int {
	n := 0
	g.eachPair(func(_, _ uint32, _, _, dist, sum float64) {
		if sum-dist > tolerance {
			n++
		}
	})
	return n
}

// Resolve runs one detect-and-separate pass and returns the contacts it saw.
// Each overlapping pair is pushed apart by half the overlap along the line of
// centers; a body overlapping several neighbors receives the vector sum of its
// corrections. All moves are applied after the scan, in ascending id order.
// Coincident centers separate along the x axis, lower id toward -x.
func (g *Grid[T]) Resolve() ([]Contact, error) {
	var contacts []Contact
	moves := make(map[uint32][2]float64)

	g.eachPair(func(a, b uint32, dx, dy, dist, sum float64) {
		contacts = append(contacts, Contact{A: a, B: b, Distance: dist, Overlap: sum - dist})

		d := (sum - dist) / 2
		ux, uy := 1.0, 0.0
		if dist > 0 {
			ux, uy = dx/dist, dy/dist
		}
		ma := moves[a]
		ma[0] -= d * ux
		ma[1] -= d * uy
		moves[a] = ma

		mb := moves[b]
		mb[0] += d * ux
		mb[1] += d * uy
		moves[b] = mb
	})

	if err := g.ApplyMoves(moves); err != nil {
		return contacts, err
	}
	return contacts, nil
}

// ApplyMoves relocates a batch of bodies in ascending id order. Every move is
// validated first; on error nothing is moved.
func (g *Grid[T]) ApplyMoves(moves map[uint32][2]float64) error {
	ids := make([]uint32, 0, len(moves))
	for _, id := range g.IDs() {
		m, ok := moves[id]
		if !ok {
			continue
		}
		if err := g.checkDisplacement(m[0], m[1]); err != nil {
			return fmt.Errorf("move %d: %w", id, err)
		}
		ids = append(ids, id)
	}
	if len(ids) != len(moves) {
		for id := range moves {
			if _, ok := g.objs[id]; !ok {
				return fmt.Errorf("move: %w: %d", ErrUnknownID, id)
			}
		}
	}

	for _, id := range ids {
		m := moves[id]
		if m[0] == 0 && m[1] == 0 {
			continue
		}
		if err := g.Relocate(id, m[0], m[1]); err != nil {
			return err
		}
	}
	return nil
}

// ResolvePasses runs n passes and returns each pass's contacts.
func (g *Grid[T]) ResolvePasses(n int) ([][]Contact, error) {
	out := make([][]Contact, 0, n)
	for i := 0; i < n; i++ {
		contacts, err := g.Resolve()
		if err != nil {
			return out, fmt.Errorf("pass %d: %w", i, err)
		}
		out = append(out, contacts)
	}
	return out, nil
}
