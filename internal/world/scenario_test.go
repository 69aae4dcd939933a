package world_test

import (
	"slices"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lifesim/internal/chem"
	"github.com/san-kum/lifesim/internal/world"
)

const demoChemistry = `
0{0}+0{0}->0{1}=0{1}
0{1}+1{0}->0{1}+1{1}
1{1}+1{1}->1{2}=1{2}
0{1}=0{1}->0{0}+0{0}
1{2}=1{2}->1{0}+1{0}
`

func record(w *world.World, ticks int) [][]world.Snapshot {
	var history [][]world.Snapshot
	for i := 0; i < ticks; i++ {
		Expect(w.Step()).To(Succeed())
		history = append(history, slices.Collect(w.Atoms()))
	}
	return history
}

var _ = Describe("World", func() {
	var table *chem.Table

	BeforeEach(func() {
		var err error
		table, err = chem.Parse(strings.NewReader(demoChemistry), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(table.Rejected()).To(BeEmpty())
	})

	build := func(seed int64) *world.World {
		cfg := world.DefaultConfig()
		cfg.Seed = seed
		cfg.Temperature = 1
		cfg.NumSpecies = 2
		cfg.NumStates = 2
		w, err := world.New(cfg, table, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Populate(120)).To(Succeed())
		return w
	}

	It("reproduces trajectories and states for the same seed", func() {
		h1 := record(build(42), 40)
		h2 := record(build(42), 40)
		Expect(h1).To(Equal(h2))
	})

	It("diverges for a different seed", func() {
		h1 := record(build(42), 5)
		h2 := record(build(43), 5)
		Expect(h1).NotTo(Equal(h2))
	})

	It("keeps species fixed while states change", func() {
		w := build(7)
		before := map[uint32]uint8{}
		for s := range w.Atoms() {
			before[s.ID] = s.Species
		}

		record(w, 60)
		for s := range w.Atoms() {
			Expect(s.Species).To(Equal(before[s.ID]))
		}
	})

	It("only bonds atoms that exist and keeps the ledger consistent", func() {
		w := build(3)
		for i := 0; i < 60; i++ {
			Expect(w.Step()).To(Succeed())
			stats := w.Stats()
			Expect(stats.Bonds).To(Equal(len(w.Bonds())))
			for _, b := range w.Bonds() {
				_, okA := w.Atom(b.A)
				_, okB := w.Atom(b.B)
				Expect(okA && okB).To(BeTrue())
				Expect(w.Bonded(b.B, b.A)).To(BeTrue())
			}
		}
	})

	It("exposes the plane size and every atom", func() {
		w := build(1)
		width, height := w.Size()
		Expect(width).To(Equal(world.DefaultWidth))
		Expect(height).To(Equal(world.DefaultHeight))
		Expect(slices.Collect(w.Atoms())).To(HaveLen(120))
	})
})
