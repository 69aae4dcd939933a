package chem

import "fmt"

type pairKey struct {
	a, b Reactant
}

// Table is an immutable-after-load set of rules. Combine and Excite rules
// share one index (they apply to free pairs); Decompose rules have their own
// (they apply to bonded pairs). Safe for concurrent reads.
type Table struct {
	rules    []Rule
	free     map[pairKey]int
	bonded   map[pairKey]int
	rejected []*LineError
}

func NewTable() *Table {
	return &Table{
		free:   make(map[pairKey]int),
		bonded: make(map[pairKey]int),
	}
}

func (t *Table) index(k Kind) map[pairKey]int {
	if k == Decompose {
		return t.bonded
	}
	return t.free
}

// Add appends a rule. A second rule for the same reactant pair in the same
// index is rejected in either order; the first one stays.
func (t *Table) Add(r Rule) error {
	if r.Kind > Excite {
		return fmt.Errorf("%w: %v", ErrSeparator, r.Kind)
	}
	idx := t.index(r.Kind)
	k := pairKey{r.Left, r.Right}
	if i, ok := idx[k]; ok {
		return fmt.Errorf("%w: %s already defined by %s", ErrDuplicate, r, t.rules[i])
	}
	if r.Left != r.Right {
		if i, ok := idx[pairKey{r.Right, r.Left}]; ok {
			return fmt.Errorf("%w: %s already defined by %s", ErrDuplicate, r, t.rules[i])
		}
	}
	idx[k] = len(t.rules)
	t.rules = append(t.rules, r)
	return nil
}

func (t *Table) Len() int { return len(t.rules) }

// Rules returns the rules in declaration order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Rejected returns the lines skipped while parsing.
func (t *Table) Rejected() []*LineError {
	return t.rejected
}

func (t *Table) find(idx map[pairKey]int, r1, r2 Reactant) (Rule, bool, bool) {
	if i, ok := idx[pairKey{r1, r2}]; ok {
		return t.rules[i], false, true
	}
	if i, ok := idx[pairKey{r2, r1}]; ok {
		return t.rules[i], true, true
	}
	return Rule{}, false, false
}

func outcome(r Rule, swapped bool) Outcome {
	if swapped {
		return Outcome{Kind: r.Kind, First: r.StateRight, Second: r.StateLeft}
	}
	return Outcome{Kind: r.Kind, First: r.StateLeft, Second: r.StateRight}
}

// Lookup reports what happens when r1 and r2 touch. The stored order is tried
// first, then the reversed order with product states swapped back into the
// caller's order. Combine and Excite rules take precedence over Decompose.
func (t *Table) Lookup(r1, r2 Reactant) (Outcome, bool) {
	if r, swapped, ok := t.find(t.free, r1, r2); ok {
		return outcome(r, swapped), true
	}
	if r, swapped, ok := t.find(t.bonded, r1, r2); ok {
		return outcome(r, swapped), true
	}
	return Outcome{}, false
}

// LookupKind is Lookup restricted to one kind of rule.
func (t *Table) LookupKind(k Kind, r1, r2 Reactant) (Outcome, bool) {
	r, swapped, ok := t.find(t.index(k), r1, r2)
	if !ok || r.Kind != k {
		return Outcome{}, false
	}
	return outcome(r, swapped), true
}
