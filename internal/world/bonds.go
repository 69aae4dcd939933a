package world

import "slices"

// Pair names two atoms. Bonds are stored under the order they were created
// with and looked up in both orders.
type Pair struct {
	A, B uint32
}

// Bond is an active distance constraint between two atoms.
type Bond struct {
	Pair
	Rest float64
}

type ledger struct {
	order []Pair
	bonds map[Pair]Bond
}

func newLedger() *ledger {
	return &ledger{bonds: make(map[Pair]Bond)}
}

func (l *ledger) find(a, b uint32) (Pair, bool) {
	if _, ok := l.bonds[Pair{a, b}]; ok {
		return Pair{a, b}, true
	}
	if _, ok := l.bonds[Pair{b, a}]; ok {
		return Pair{b, a}, true
	}
	return Pair{}, false
}

func (l *ledger) has(a, b uint32) bool {
	_, ok := l.find(a, b)
	return ok
}

func (l *ledger) add(b Bond) bool {
	if l.has(b.A, b.B) {
		return false
	}
	l.bonds[b.Pair] = b
	l.order = append(l.order, b.Pair)
	return true
}

func (l *ledger) remove(a, b uint32) bool {
	p, ok := l.find(a, b)
	if !ok {
		return false
	}
	delete(l.bonds, p)
	l.order = slices.DeleteFunc(l.order, func(q Pair) bool { return q == p })
	return true
}

func (l *ledger) len() int { return len(l.order) }

// list returns the bonds in creation order.
func (l *ledger) list() []Bond {
	out := make([]Bond, len(l.order))
	for i, p := range l.order {
		out[i] = l.bonds[p]
	}
	return out
}
