// Package storage persists finished runs: metadata as JSON, the executed
// decay records as CSV, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tkoskela/decaykit/internal/scheduler"
	"github.com/tkoskela/decaykit/internal/sim"
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
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	Dt           float64            `json:"dt"`
	TEnd         float64            `json:"t_end"`
	Steps        int                `json:"steps"`
	Decays       int                `json:"decays"`
	ForcedDecays int                `json:"forced_decays"`
	FinalCounts  map[string]int     `json:"final_counts"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save persists one run under an ID derived from the label and wall clock.
func (s *Store) Save(label string, cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", label, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Timestamp:    time.Now(),
		Seed:         cfg.Seed,
		Dt:           cfg.Dt,
		TEnd:         cfg.TEnd,
		Steps:        result.StepsTaken,
		Decays:       len(result.Decays),
		ForcedDecays: result.ForcedDecays,
		FinalCounts:  result.FinalCounts,
		Metrics:      result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "decays.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "parent", "parent_id", "delay", "products"}); err != nil {
		return "", err
	}
	for _, rec := range result.Decays {
		row := []string{
			strconv.FormatFloat(rec.Time, 'g', 17, 64),
			rec.Parent,
			strconv.FormatInt(int64(rec.ParentID), 10),
			strconv.FormatFloat(rec.Delay, 'g', 17, 64),
			strings.Join(rec.Products, " "),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	return runID, nil
}

// Load reads the metadata of one run.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRecords reads the decay records of one run.
func (s *Store) LoadRecords(runID string) ([]scheduler.Record, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "decays.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]scheduler.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != 5 {
			return nil, fmt.Errorf("storage: malformed decay row in %s", runID)
		}
		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, err
		}
		id, err := strconv.ParseInt(row[2], 10, 32)
		if err != nil {
			return nil, err
		}
		delay, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, err
		}
		records = append(records, scheduler.Record{
			Time:     t,
			Parent:   row[1],
			ParentID: int32(id),
			Delay:    delay,
			Products: strings.Fields(row[4]),
		})
	}
	return records, nil
}

// List returns the stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}
