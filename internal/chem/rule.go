package chem

import "fmt"

// Reactant is a (species, state) lookup key.
type Reactant struct {
	Species uint8
	State   uint8
}

func (r Reactant) String() string {
	return fmt.Sprintf("%x{%x}", r.Species, r.State)
}

type Kind uint8

const (
	Combine Kind = iota
	Decompose
	Excite
)

func (k Kind) String() string {
	switch k {
	case Combine:
		return "combine"
	case Decompose:
		return "decompose"
	case Excite:
		return "excite"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// separators returns the reactant and product separators for k.
func (k Kind) separators() (byte, byte) {
	switch k {
	case Combine:
		return '+', '='
	case Decompose:
		return '=', '+'
	default:
		return '+', '+'
	}
}

func kindOf(sep1, sep2 byte) (Kind, bool) {
	switch {
	case sep1 == '+' && sep2 == '=':
		return Combine, true
	case sep1 == '=' && sep2 == '+':
		return Decompose, true
	case sep1 == '+' && sep2 == '+':
		return Excite, true
	}
	return 0, false
}

// Rule maps an ordered reactant pair to new states. Products keep the
// reactants' species.
type Rule struct {
	Kind       Kind
	Left       Reactant
	Right      Reactant
	StateLeft  uint8
	StateRight uint8
}

// Products returns the reactants after the rule has fired.
func (r Rule) Products() (Reactant, Reactant) {
	return Reactant{Species: r.Left.Species, State: r.StateLeft},
		Reactant{Species: r.Right.Species, State: r.StateRight}
}

// String renders the rule in rule-file syntax.
func (r Rule) String() string {
	s1, s2 := r.Kind.separators()
	p1, p2 := r.Products()
	return fmt.Sprintf("%s%c%s->%s%c%s", r.Left, s1, r.Right, p1, s2, p2)
}

// Outcome is the result of a lookup, with states in the caller's order.
type Outcome struct {
	Kind   Kind
	First  uint8
	Second uint8
}
