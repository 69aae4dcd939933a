package sim

import (
	"iter"

	"github.com/san-kum/lifesim/internal/world"
)

// View is the read-only surface of a world handed to metrics and observers.
type View interface {
	Tick() uint64
	Size() (float64, float64)
	Atoms() iter.Seq[world.Snapshot]
}

type Metric interface {
	Name() string
	Observe(v View, s world.TickStats)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(v View, s world.TickStats)
}

type ObserverFunc func(v View, s world.TickStats)

func (f ObserverFunc) OnTick(v View, s world.TickStats) { f(v, s) }

type Result struct {
	Seed       int64
	Ticks      []world.TickStats
	Metrics    map[string]float64
	StepsTaken int
	// Atoms is the world snapshot after the last completed tick.
	Atoms []world.Snapshot
}

// Series extracts one column of the tick history.
func (r *Result) Series(field func(world.TickStats) int) []float64 {
	out := make([]float64, len(r.Ticks))
	for i, s := range r.Ticks {
		out[i] = float64(field(s))
	}
	return out
}
