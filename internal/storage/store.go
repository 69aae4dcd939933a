package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/lifesim/internal/world"
)

const (
	metadataFile = "metadata.json"
	ticksFile    = "ticks.csv"
	atomsFile    = "atoms.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Ticks       int                `json:"ticks"`
	Atoms       int                `json:"atoms"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	Diameter    float64            `json:"diameter"`
	Temperature float64            `json:"temperature"`
	Passes      int                `json:"passes"`
	Chemistry   string             `json:"chemistry"`
	Rules       int                `json:"rules"`
	Metrics     map[string]float64 `json:"metrics"`
}

// NewMetadata fills the world parameters of a run record.
func NewMetadata(cfg world.Config, seed int64, chemistry string, rules int) RunMetadata {
	return RunMetadata{
		Seed:        seed,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Diameter:    cfg.Diameter,
		Temperature: cfg.Temperature,
		Passes:      cfg.Passes,
		Chemistry:   chemistry,
		Rules:       rules,
		Metrics:     make(map[string]float64),
	}
}

// Save writes a finished run in one go.
func (s *Store) Save(meta RunMetadata, ticks []world.TickStats, atoms []world.Snapshot) (string, error) {
	rec, err := s.Create(meta)
	if err != nil {
		return "", err
	}
	if len(ticks) > 0 {
		if err := rec.writeTicks(ticks); err != nil {
			rec.ticks.Close()
			return "", err
		}
	}
	return rec.ID(), rec.Finish(meta.Metrics, atoms)
}

func (s *Store) runDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

func newRunID(seed int64) string {
	return fmt.Sprintf("run_%d_s%d", time.Now().UnixNano(), seed)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.runDir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTicks(runID string) ([]world.TickStats, error) {
	var ticks []world.TickStats
	if err := loadCSV(filepath.Join(s.runDir(runID), ticksFile), &ticks); err != nil {
		return nil, err
	}
	return ticks, nil
}

func (s *Store) LoadAtoms(runID string) ([]world.Snapshot, error) {
	var atoms []world.Snapshot
	if err := loadCSV(filepath.Join(s.runDir(runID), atomsFile), &atoms); err != nil {
		return nil, err
	}
	return atoms, nil
}

func loadCSV(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return nil
}
