package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/lifesim/internal/sim"
	"github.com/san-kum/lifesim/internal/world"
)

// Recorder streams tick statistics of a live run to ticks.csv and writes
// the metadata and final atom snapshot on Finish. It implements
// sim.Observer; the first write error is kept and returned by Finish.
type Recorder struct {
	dir           string
	meta          RunMetadata
	ticks         *os.File
	headerWritten bool
	written       int
	err           error
}

var _ sim.Observer = (*Recorder)(nil)

// Create allocates a run directory and opens its tick log.
func (s *Store) Create(meta RunMetadata) (*Recorder, error) {
	meta.ID = newRunID(meta.Seed)
	meta.Timestamp = time.Now()

	dir := s.runDir(meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f, err := os.Create(filepath.Join(dir, ticksFile))
	if err != nil {
		return nil, err
	}

	return &Recorder{dir: dir, meta: meta, ticks: f}, nil
}

func (r *Recorder) ID() string { return r.meta.ID }

func (r *Recorder) OnTick(_ sim.View, s world.TickStats) {
	if r.err != nil {
		return
	}
	r.err = r.writeTicks([]world.TickStats{s})
}

func (r *Recorder) writeTicks(records []world.TickStats) error {
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.ticks); err != nil {
			return fmt.Errorf("writing ticks: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.ticks); err != nil {
			return fmt.Errorf("writing ticks: %w", err)
		}
	}
	r.written += len(records)
	return nil
}

// Finish closes the tick log and writes atoms.csv and metadata.json.
func (r *Recorder) Finish(metrics map[string]float64, atoms []world.Snapshot) error {
	if r.err == nil && !r.headerWritten {
		r.err = r.writeTicks([]world.TickStats{})
	}
	if err := r.ticks.Close(); err != nil && r.err == nil {
		r.err = err
	}
	if r.err != nil {
		return r.err
	}

	f, err := os.Create(filepath.Join(r.dir, atomsFile))
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(atoms, f); err != nil {
		f.Close()
		return fmt.Errorf("writing atoms: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	r.meta.Ticks = r.written
	r.meta.Atoms = len(atoms)
	if metrics != nil {
		r.meta.Metrics = metrics
	}
	return writeJSON(filepath.Join(r.dir, metadataFile), r.meta)
}
