package grid

import (
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"
)

// Body is anything the grid can index.
type Body interface {
	ID() uint32
	Position() (x, y float64)
	Diameter() float64
	// Shift moves the body and wraps it onto a w×h torus.
	Shift(dx, dy, w, h float64)
}

// Grid partitions a width×height torus into spanX×spanY cells.
type Grid[T Body] struct {
	width, height      float64
	spacingX, spacingY float64
	spanX, spanY       int

	cells  [][]uint32 // ids per cell; index = cx + cy*spanX
	objs   map[uint32]T
	lookup map[uint32]int // id -> cell holding it
}

func New[T Body](width, height, spacingX, spacingY float64) (*Grid[T], error) {
	if !(width > 0) || !(height > 0) || !(spacingX > 0) || !(spacingY > 0) {
		return nil, fmt.Errorf("%w: size %gx%g, spacing %gx%g", ErrBadGeometry, width, height, spacingX, spacingY)
	}

	spanX := int(width / spacingX)
	spanY := int(height / spacingY)
	if spanX < 1 || spanY < 1 {
		return nil, fmt.Errorf("%w: spacing %gx%g larger than plane %gx%g", ErrBadGeometry, spacingX, spacingY, width, height)
	}

	cells := make([][]uint32, spanX*spanY)
	for i := range cells {
		cells[i] = make([]uint32, 0, 4)
	}

	return &Grid[T]{
		width:    width,
		height:   height,
		spacingX: spacingX,
		spacingY: spacingY,
		spanX:    spanX,
		spanY:    spanY,
		cells:    cells,
		objs:     make(map[uint32]T),
		lookup:   make(map[uint32]int),
	}, nil
}

func (g *Grid[T]) Size() (float64, float64) { return g.width, g.height }
func (g *Grid[T]) Span() (int, int)         { return g.spanX, g.spanY }
func (g *Grid[T]) Len() int                 { return len(g.objs) }

// Insert adds obj to the cell covering its position.
func (g *Grid[T]) Insert(obj T) error {
	id := obj.ID()
	if _, ok := g.objs[id]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicate, id)
	}
	if d := obj.Diameter(); d > g.spacingX || d > g.spacingY {
		return fmt.Errorf("%w: diameter %g, spacing %gx%g", ErrOversize, d, g.spacingX, g.spacingY)
	}
	x, y := obj.Position()
	if x < 0 || x >= g.width || y < 0 || y >= g.height || math.IsNaN(x) || math.IsNaN(y) {
		return fmt.Errorf("%w: id %d at (%g, %g)", ErrOutOfBounds, id, x, y)
	}

	g.place(obj)
	return nil
}

func (g *Grid[T]) place(obj T) {
	id := obj.ID()
	c := g.cellOf(obj.Position())
	g.cells[c] = append(g.cells[c], id)
	g.objs[id] = obj
	g.lookup[id] = c
}

// Remove detaches and returns the body with the given id.
func (g *Grid[T]) Remove(id uint32) (T, error) {
	obj, ok := g.objs[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %d", ErrUnknownID, id)
	}

	c := g.lookup[id]
	cell := g.cells[c]
	i := slices.Index(cell, id)
	if i < 0 {
		panic(fmt.Sprintf("grid: id %d missing from its cell %d", id, c))
	}
	last := len(cell) - 1
	cell[i] = cell[last]
	g.cells[c] = cell[:last]

	delete(g.objs, id)
	delete(g.lookup, id)
	return obj, nil
}

// Get returns the body with the given id.
func (g *Grid[T]) Get(id uint32) (T, bool) {
	obj, ok := g.objs[id]
	return obj, ok
}

// Cell returns the flat index of the cell currently holding id.
func (g *Grid[T]) Cell(id uint32) (int, bool) {
	c, ok := g.lookup[id]
	return c, ok
}

// Relocate moves a body by (dx, dy), wrapping once at the plane's edges.
func (g *Grid[T]) Relocate(id uint32, dx, dy float64) error {
	if _, ok := g.objs[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	if err := g.checkDisplacement(dx, dy); err != nil {
		return fmt.Errorf("relocate %d: %w", id, err)
	}

	obj, _ := g.Remove(id)
	obj.Shift(dx, dy, g.width, g.height)
	g.place(obj)
	return nil
}

func (g *Grid[T]) checkDisplacement(dx, dy float64) error {
	if !(math.Abs(dx) < g.width) || !(math.Abs(dy) < g.height) {
		return fmt.Errorf("%w: (%g, %g)", ErrDisplacement, dx, dy)
	}
	return nil
}

// IDs returns every live id in ascending order.
func (g *Grid[T]) IDs() []uint32 {
	return slices.Sorted(maps.Keys(g.objs))
}

// All yields every body in ascending id order.
func (g *Grid[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, id := range g.IDs() {
			if !yield(g.objs[id]) {
				return
			}
		}
	}
}

// Delta returns the shortest vector from (x1,y1) to (x2,y2) on the torus.
func (g *Grid[T]) Delta(x1, y1, x2, y2 float64) (dx, dy float64) {
	dx = x2 - x1
	dy = y2 - y1

	if dx > g.width/2 {
		dx -= g.width
	} else if dx < -g.width/2 {
		dx += g.width
	}
	if dy > g.height/2 {
		dy -= g.height
	} else if dy < -g.height/2 {
		dy += g.height
	}

	return dx, dy
}

// cellOf maps a position to a flat cell index. The last row and column absorb
// the remainder when the size is not a multiple of the spacing.
func (g *Grid[T]) cellOf(x, y float64) int {
	cx := min(int(x/g.spacingX), g.spanX-1)
	cy := min(int(y/g.spacingY), g.spanY-1)
	return cx + cy*g.spanX
}

// neighborhood returns the distinct cells of the wrapped 3×3 block around c.
func (g *Grid[T]) neighborhood(c int) []int {
	cx, cy := c%g.spanX, c/g.spanX
	out := make([]int, 0, 9)
	for dy := -1; dy <= 1; dy++ {
		ny := (cy + dy + g.spanY) % g.spanY
		for dx := -1; dx <= 1; dx++ {
			nx := (cx + dx + g.spanX) % g.spanX
			n := nx + ny*g.spanX
			if !slices.Contains(out, n) {
				out = append(out, n)
			}
		}
	}
	return out
}
