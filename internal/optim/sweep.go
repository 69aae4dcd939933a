package optim

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/san-kum/lifesim/internal/metrics"
	"github.com/san-kum/lifesim/internal/sim"
)

// Param is one swept parameter and the values it takes.
type Param struct {
	Name   string
	Values []float64
}

// ParseParam reads "name=v1,v2,...".
func ParseParam(s string) (Param, error) {
	name, list, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(list) == "" {
		return Param{}, fmt.Errorf("parameter %q: expected name=v1,v2", s)
	}

	p := Param{Name: name}
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Param{}, fmt.Errorf("parameter %s: %w", name, err)
		}
		p.Values = append(p.Values, v)
	}
	return p, nil
}

// Point is the ensemble outcome at one parameter combination.
type Point struct {
	Params  map[string]float64
	Mean    float64
	Std     float64
	Results []*sim.Result
}

// BuilderFor turns a parameter combination into a world builder.
type BuilderFor func(params map[string]float64) (sim.Builder, error)

// Sweep runs an ensemble at every combination of parameter values and
// summarizes one metric across its seeds.
type Sweep struct {
	params    []Param
	metric    string
	runs      int
	seedStart int64
}

func NewSweep(params []Param, metric string, runs int, seedStart int64) *Sweep {
	return &Sweep{params: params, metric: metric, runs: runs, seedStart: seedStart}
}

// Run visits combinations with the last parameter varying fastest. Every
// combination reuses the same seeds.
func (s *Sweep) Run(ctx context.Context, ticks int, buildFor BuilderFor, factory func() []sim.Metric) ([]Point, error) {
	if len(s.params) == 0 {
		return nil, fmt.Errorf("no parameters to sweep")
	}
	points := make([]Point, 0)
	err := s.searchRecursive(ctx, 0, make(map[string]float64), ticks, buildFor, factory, &points)
	return points, err
}

func (s *Sweep) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	ticks int,
	buildFor BuilderFor,
	factory func() []sim.Metric,
	points *[]Point,
) error {
	if depth == len(s.params) {
		build, err := buildFor(current)
		if err != nil {
			return err
		}

		results, err := sim.NewEnsemble(build, factory, s.runs, s.seedStart).Run(ctx, ticks)
		if err != nil {
			return fmt.Errorf("at %v: %w", current, err)
		}

		values := make([]float64, 0, len(results))
		for _, r := range results {
			v, ok := r.Metrics[s.metric]
			if !ok {
				return fmt.Errorf("metric %q not recorded", s.metric)
			}
			values = append(values, v)
		}

		mean, std := metrics.Summary(values)
		*points = append(*points, Point{
			Params:  maps.Clone(current),
			Mean:    mean,
			Std:     std,
			Results: results,
		})
		return nil
	}

	p := s.params[depth]
	for _, val := range p.Values {
		next := maps.Clone(current)
		next[p.Name] = val

		if err := s.searchRecursive(ctx, depth+1, next, ticks, buildFor, factory, points); err != nil {
			return err
		}
	}
	return nil
}

// Best returns the point with the highest mean, or the lowest when
// minimize is set. Ties keep the earlier point.
func Best(points []Point, minimize bool) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if (minimize && p.Mean < best.Mean) || (!minimize && p.Mean > best.Mean) {
			best = p
		}
	}
	return best, true
}
