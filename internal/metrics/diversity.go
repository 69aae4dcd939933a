package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/lifesim/internal/sim"
	"github.com/san-kum/lifesim/internal/world"
)

// StateDiversity is the Shannon entropy, in nats, of the (species, state)
// histogram of the most recently observed tick.
type StateDiversity struct {
	counts map[[2]uint8]int
	total  int
}

func NewStateDiversity() *StateDiversity {
	return &StateDiversity{counts: make(map[[2]uint8]int)}
}

func (d *StateDiversity) Name() string { return "state_diversity" }

func (d *StateDiversity) Observe(v sim.View, _ world.TickStats) {
	clear(d.counts)
	d.total = 0
	for a := range v.Atoms() {
		d.counts[[2]uint8{a.Species, a.State}]++
		d.total++
	}
}

func (d *StateDiversity) Value() float64 {
	if d.total == 0 {
		return 0
	}
	p := make([]float64, 0, len(d.counts))
	for _, n := range d.counts {
		p = append(p, float64(n)/float64(d.total))
	}
	return stat.Entropy(p)
}

func (d *StateDiversity) Reset() {
	clear(d.counts)
	d.total = 0
}
