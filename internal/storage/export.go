package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/lifesim/internal/world"
)

type ExportData struct {
	Run   RunMetadata       `json:"run"`
	Ticks []world.TickStats `json:"ticks"`
	Atoms []world.Snapshot  `json:"atoms"`
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	ticks, err := s.LoadTicks(runID)
	if err != nil {
		return err
	}
	atoms, err := s.LoadAtoms(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Ticks: ticks, Atoms: atoms})
}
