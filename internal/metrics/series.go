package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/lifesim/internal/sim"
	"github.com/san-kum/lifesim/internal/world"
)

// Series records one column of the tick statistics and reports its mean.
type Series struct {
	name   string
	field  func(world.TickStats) float64
	values []float64
}

func NewSeries(name string, field func(world.TickStats) float64) *Series {
	return &Series{name: name, field: field}
}

func NewBondCount() *Series {
	return NewSeries("bonds", func(s world.TickStats) float64 { return float64(s.Bonds) })
}

func NewReactionRate() *Series {
	return NewSeries("reaction_rate", func(s world.TickStats) float64 { return float64(s.Reactions()) })
}

func NewContactRate() *Series {
	return NewSeries("contact_rate", func(s world.TickStats) float64 { return float64(s.Contacts) })
}

func (m *Series) Name() string { return m.name }

func (m *Series) Observe(_ sim.View, s world.TickStats) {
	m.values = append(m.values, m.field(s))
}

func (m *Series) Value() float64 {
	if len(m.values) == 0 {
		return 0
	}
	return stat.Mean(m.values, nil)
}

func (m *Series) Values() []float64 { return m.values }

func (m *Series) Reset() { m.values = m.values[:0] }

// OverlapTrend is the least-squares slope of residual overlaps per tick.
// A negative value means collision resolution is catching up.
type OverlapTrend struct {
	ticks    []float64
	overlaps []float64
}

func NewOverlapTrend() *OverlapTrend { return &OverlapTrend{} }

func (o *OverlapTrend) Name() string { return "overlap_trend" }

func (o *OverlapTrend) Observe(_ sim.View, s world.TickStats) {
	o.ticks = append(o.ticks, float64(s.Tick))
	o.overlaps = append(o.overlaps, float64(s.Overlaps))
}

func (o *OverlapTrend) Value() float64 {
	if len(o.ticks) < 2 {
		return 0
	}
	_, beta := stat.LinearRegression(o.ticks, o.overlaps, nil, false)
	return beta
}

func (o *OverlapTrend) Reset() {
	o.ticks = o.ticks[:0]
	o.overlaps = o.overlaps[:0]
}
