package grid

import "errors"

// Precondition failures. The grid is left unchanged when one is returned.
var (
	// ErrBadGeometry indicates a non-positive size or a spacing that yields no cells.
	ErrBadGeometry = errors.New("grid: invalid size or spacing")

	// ErrOversize indicates a body wider than the cell spacing; the 3×3
	// neighborhood would miss some of its collisions.
	ErrOversize = errors.New("grid: body diameter exceeds cell spacing")

	// ErrDuplicate indicates an insert of an id that is already present.
	ErrDuplicate = errors.New("grid: id already present")

	// ErrUnknownID indicates an operation on an id that was never inserted or was removed.
	ErrUnknownID = errors.New("grid: unknown id")

	// ErrOutOfBounds indicates a position outside [0,width)×[0,height).
	ErrOutOfBounds = errors.New("grid: position outside the plane")

	// ErrDisplacement indicates a move of at least one full period on an axis.
	ErrDisplacement = errors.New("grid: displacement not smaller than plane size")
)
