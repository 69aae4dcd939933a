package world

import (
	"fmt"
	"iter"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/lifesim/internal/atom"
	"github.com/san-kum/lifesim/internal/chem"
	"github.com/san-kum/lifesim/internal/grid"
)

// Snapshot is a read-only view of one atom.
type Snapshot struct {
	ID       uint32  `csv:"id" json:"id"`
	Species  uint8   `csv:"species" json:"species"`
	State    uint8   `csv:"state" json:"state"`
	X        float64 `csv:"x" json:"x"`
	Y        float64 `csv:"y" json:"y"`
	Diameter float64 `csv:"diameter" json:"diameter"`
}

func snapshotOf(a *atom.Atom) Snapshot {
	x, y := a.Position()
	return Snapshot{ID: a.ID(), Species: a.Species(), State: a.State(), X: x, Y: y, Diameter: a.Diameter()}
}

type World struct {
	cfg    Config
	seed   int64
	rng    *rand.Rand
	grid   *grid.Grid[*atom.Atom]
	table  *chem.Table
	bonds  *ledger
	logger *slog.Logger

	nextID uint32
	tick   uint64
	last   TickStats
}

// New builds an empty world. Grid cells are one diameter wide.
func New(cfg Config, table *chem.Table, logger *slog.Logger) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		return nil, ErrNoChemistry
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	g, err := grid.New[*atom.Atom](cfg.Width, cfg.Height, cfg.Diameter, cfg.Diameter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &World{
		cfg:    cfg,
		seed:   seed,
		rng:    rand.New(rand.NewSource(seed)),
		grid:   g,
		table:  table,
		bonds:  newLedger(),
		logger: logger,
	}, nil
}

// AddAtom places an atom and returns its id.
func (w *World) AddAtom(x, y float64, species, state uint8) (uint32, error) {
	id := w.nextID
	if err := w.grid.Insert(atom.New(id, species, state, x, y, w.cfg.Diameter)); err != nil {
		return 0, fmt.Errorf("add atom: %w", err)
	}
	w.nextID++
	return id, nil
}

// Populate adds n atoms with random positions, species and states drawn from
// the world's random stream.
func (w *World) Populate(n int) error {
	for i := 0; i < n; i++ {
		x := w.uniform(w.cfg.Width)
		y := w.uniform(w.cfg.Height)
		species := uint8(w.rng.Intn(w.cfg.NumSpecies))
		state := uint8(w.rng.Intn(w.cfg.NumStates))
		if _, err := w.AddAtom(x, y, species, state); err != nil {
			return err
		}
	}
	w.logger.Debug("populated world", "atoms", n, "seed", w.seed)
	return nil
}

// uniform draws from [0, size).
func (w *World) uniform(size float64) float64 {
	v := w.rng.Float64() * size
	if v >= size {
		v = 0
	}
	return v
}

func (w *World) Config() Config           { return w.cfg }
func (w *World) Seed() int64              { return w.seed }
func (w *World) Tick() uint64             { return w.tick }
func (w *World) Size() (float64, float64) { return w.cfg.Width, w.cfg.Height }
func (w *World) Len() int                 { return w.grid.Len() }
func (w *World) Stats() TickStats         { return w.last }
func (w *World) Table() *chem.Table       { return w.table }
func (w *World) Bonded(a, b uint32) bool  { return w.bonds.has(a, b) }
func (w *World) Bonds() []Bond            { return w.bonds.list() }

// Atom returns a snapshot of one atom.
func (w *World) Atom(id uint32) (Snapshot, bool) {
	a, ok := w.grid.Get(id)
	if !ok {
		return Snapshot{}, false
	}
	return snapshotOf(a), true
}

// Atoms yields a snapshot of every atom in ascending id order.
func (w *World) Atoms() iter.Seq[Snapshot] {
	return func(yield func(Snapshot) bool) {
		for a := range w.grid.All() {
			if !yield(snapshotOf(a)) {
				return
			}
		}
	}
}
