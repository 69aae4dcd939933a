// Package grid provides a uniform spatial hash over a toroidal plane.
//
// A [Grid] buckets any value implementing [Body] into fixed-size cells and
// answers neighbor queries from the 3×3 Moore neighborhood of a cell, wrapping
// at the plane's edges. [Grid.Resolve] performs one overlap-separation pass:
//
//   - every unordered pair in neighboring cells is visited once (lower id first)
//   - each overlapping pair is pushed apart by half the overlap along the line of centers
//   - corrections are summed per body and applied in one batch after the scan
//
// # Example
//
//	g, _ := grid.New[*atom.Atom](100, 100, 5, 5)
//	_ = g.Insert(atom.New(1, 0, 0, 50, 50, 5))
//	for range 8 {
//	    contacts, _ := g.Resolve()
//	    _ = contacts
//	}
//
// # Thread Safety
//
// Grid instances are NOT thread-safe.
package grid
