package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/lifesim/internal/sim"
)

func DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		NewBondCount(),
		NewReactionRate(),
		NewContactRate(),
		NewOverlapTrend(),
		NewStateDiversity(),
	}
}

// Summary returns the mean and sample standard deviation of values.
// The deviation is 0 for fewer than two values.
func Summary(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	mean, std = stat.MeanStdDev(values, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}
