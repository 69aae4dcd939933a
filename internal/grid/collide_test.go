package grid

import (
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestResolvePair(t *testing.T) {
	tests := []struct {
		name         string
		a, b         testBody
		wantA, wantB [2]float64
	}{
		{
			name:  "overlap along x",
			a:     testBody{id: 1, x: 50, y: 50, dia: 5},
			b:     testBody{id: 2, x: 53, y: 50, dia: 5},
			wantA: [2]float64{49, 50},
			wantB: [2]float64{54, 50},
		},
		{
			name:  "across the seam",
			a:     testBody{id: 1, x: 1, y: 50, dia: 5},
			b:     testBody{id: 2, x: 98, y: 50, dia: 5},
			wantA: [2]float64{2, 50},
			wantB: [2]float64{97, 50},
		},
		{
			name:  "coincident centers",
			a:     testBody{id: 1, x: 50, y: 50, dia: 5},
			b:     testBody{id: 2, x: 50, y: 50, dia: 5},
			wantA: [2]float64{47.5, 50},
			wantB: [2]float64{52.5, 50},
		},
		{
			name:  "apart",
			a:     testBody{id: 1, x: 10, y: 10, dia: 5},
			b:     testBody{id: 2, x: 20, y: 10, dia: 5},
			wantA: [2]float64{10, 10},
			wantB: [2]float64{20, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(t, 100, 5)
			a, b := tt.a, tt.b
			mustInsert(t, g, &a)
			mustInsert(t, g, &b)

			if _, err := g.Resolve(); err != nil {
				t.Fatalf("Resolve: %v", err)
			}

			if !near(a.x, tt.wantA[0]) || !near(a.y, tt.wantA[1]) {
				t.Errorf("a at (%v, %v), want %v", a.x, a.y, tt.wantA)
			}
			if !near(b.x, tt.wantB[0]) || !near(b.y, tt.wantB[1]) {
				t.Errorf("b at (%v, %v), want %v", b.x, b.y, tt.wantB)
			}
			for _, v := range []float64{a.x, a.y, b.x, b.y} {
				if math.IsNaN(v) {
					t.Fatal("NaN position")
				}
			}
			checkLookup(t, g)
		})
	}
}

func TestResolveSumsCorrections(t *testing.T) {
	g := newTestGrid(t, 100, 5)
	left := &testBody{id: 1, x: 47, y: 50, dia: 5}
	mid := &testBody{id: 2, x: 50, y: 50, dia: 5}
	right := &testBody{id: 3, x: 53, y: 50, dia: 5}
	for _, b := range []*testBody{left, mid, right} {
		mustInsert(t, g, b)
	}

	contacts, err := g.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}

	if !near(mid.x, 50) {
		t.Errorf("middle body moved to %v; opposing corrections should cancel", mid.x)
	}
	if !near(left.x, 46) || !near(right.x, 54) {
		t.Errorf("outer bodies at %v and %v, want 46 and 54", left.x, right.x)
	}
}

func TestResolveSmallSpanVisitsPairOnce(t *testing.T) {
	// 2×2 cells: the wrapped 3×3 block repeats cells
	g := newTestGrid(t, 10, 5)
	a := &testBody{id: 1, x: 2, y: 2, dia: 5}
	b := &testBody{id: 2, x: 5, y: 2, dia: 5}
	mustInsert(t, g, a)
	mustInsert(t, g, b)

	contacts, err := g.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}
	if !near(a.x, 1) || !near(b.x, 6) {
		t.Errorf("bodies at %v and %v, want 1 and 6", a.x, b.x)
	}
}

func TestContactsSeesTouching(t *testing.T) {
	g := newTestGrid(t, 100, 5)
	mustInsert(t, g, &testBody{id: 1, x: 10, y: 10, dia: 5})
	mustInsert(t, g, &testBody{id: 2, x: 15, y: 10, dia: 5})

	contacts := g.Contacts()
	if len(contacts) != 1 {
		t.Fatalf("expected touching pair to count as contact, got %d", len(contacts))
	}
	c := contacts[0]
	if c.A != 1 || c.B != 2 || !near(c.Overlap, 0) {
		t.Errorf("unexpected contact %+v", c)
	}
	if g.Overlaps(1e-6) != 0 {
		t.Error("touching pair counted as overlap")
	}
}

func overlapDepth(g *Grid[*testBody]) float64 {
	total := 0.0
	for _, c := range g.Contacts() {
		total += c.Overlap
	}
	return total
}

func TestResolvePassesConverge(t *testing.T) {
	g := newTestGrid(t, 100, 5)
	rng := rand.New(rand.NewSource(11))
	for i := uint32(1); i <= 80; i++ {
		mustInsert(t, g, &testBody{id: i, x: rng.Float64() * 100, y: rng.Float64() * 100, dia: 5})
	}

	const tol = 1e-3
	startCount := g.Overlaps(tol)
	startDepth := overlapDepth(g)
	if startCount == 0 {
		t.Fatal("fixture has no overlaps")
	}

	if _, err := g.ResolvePasses(8); err != nil {
		t.Fatalf("ResolvePasses: %v", err)
	}

	// A single pass may push a third body into contact; only the budget as a
	// whole has to converge.
	if got := g.Overlaps(tol); got > startCount {
		t.Errorf("overlaps grew from %d to %d", startCount, got)
	}
	if got := overlapDepth(g); got > startDepth/2 {
		t.Errorf("overlap depth %v after 8 passes, started at %v", got, startDepth)
	}
	checkLookup(t, g)
}

func TestResolveDeterministic(t *testing.T) {
	build := func() *Grid[*testBody] {
		g := newTestGrid(t, 50, 5)
		rng := rand.New(rand.NewSource(5))
		for i := uint32(1); i <= 60; i++ {
			mustInsert(t, g, &testBody{id: i, x: rng.Float64() * 50, y: rng.Float64() * 50, dia: 5})
		}
		return g
	}

	g1, g2 := build(), build()
	for pass := 0; pass < 8; pass++ {
		if _, err := g1.Resolve(); err != nil {
			t.Fatal(err)
		}
		if _, err := g2.Resolve(); err != nil {
			t.Fatal(err)
		}
	}

	for _, id := range g1.IDs() {
		a, _ := g1.Get(id)
		b, _ := g2.Get(id)
		if a.x != b.x || a.y != b.y {
			t.Fatalf("body %d diverged: (%v, %v) vs (%v, %v)", id, a.x, a.y, b.x, b.y)
		}
	}
}

func BenchmarkResolve(b *testing.B) {
	g, _ := New[*testBody](200, 200, 5, 5)
	rng := rand.New(rand.NewSource(1))
	for i := uint32(1); i <= 1000; i++ {
		_ = g.Insert(&testBody{id: i, x: rng.Float64() * 200, y: rng.Float64() * 200, dia: 5})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = g.Resolve()
	}
}
