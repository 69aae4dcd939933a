package sim

import (
	"context"
	"fmt"
	"slices"

	"github.com/san-kum/lifesim/internal/world"
)

type Simulator struct {
	world     *world.World
	metrics   []Metric
	observers []Observer
}

func New(w *world.World) *Simulator {
	return &Simulator{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) World() *world.World { return s.world }

// Run advances the world by ticks steps. Cancellation is checked between
// ticks; on cancellation or a step failure the partial result is returned
// alongside the error.
func (s *Simulator) Run(ctx context.Context, ticks int) (*Result, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("ticks must be positive, got %d", ticks)
	}

	result := &Result{
		Seed:    s.world.Seed(),
		Ticks:   make([]world.TickStats, 0, ticks),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	var runErr error
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		if err := s.world.Step(); err != nil {
			runErr = err
			break
		}
		stats := s.world.Stats()
		result.StepsTaken++
		result.Ticks = append(result.Ticks, stats)

		for _, m := range s.metrics {
			m.Observe(s.world, stats)
		}
		for _, obs := range s.observers {
			obs.OnTick(s.world, stats)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Atoms = slices.Collect(s.world.Atoms())

	return result, runErr
}
