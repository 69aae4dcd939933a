package chem

import (
	"errors"
	"fmt"
)

// Reasons a rule line is rejected.
var (
	// ErrSyntax indicates a line without exactly one "->".
	ErrSyntax = errors.New("chem: expected '<reactants> -> <products>'")

	// ErrSeparator indicates a missing, unknown or disallowed separator pair.
	ErrSeparator = errors.New("chem: invalid separator combination")

	// ErrToken indicates a token that is not <hex>{<hex>} with byte-sized values.
	ErrToken = errors.New("chem: malformed species{state} token")

	// ErrSpeciesMismatch indicates a product whose species differs from its reactant.
	ErrSpeciesMismatch = errors.New("chem: reaction changes species")

	// ErrDuplicate indicates a second rule for the same reactant pair.
	ErrDuplicate = errors.New("chem: duplicate rule for reactant pair")
)

// LineError reports a rule line that was skipped.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
