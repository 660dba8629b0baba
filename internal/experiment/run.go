// Package experiment records what a batch transform did to each dataset.
package experiment

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Felippe-Pires/CategoricalDatasets/internal/pivot"
	"github.com/Felippe-Pires/CategoricalDatasets/internal/utils"
)

const runFileName = "run.json"

// Run is one batch invocation persisted on disk as run.json.
type Run struct {
	ID             string                   `json:"id"`
	Name           string                   `json:"name"`
	Seed           uint64                   `json:"seed"`
	ConstantPolicy string                   `json:"constant_policy"`
	TypesFile      string                   `json:"types_file,omitempty"`
	Datasets       map[string]*DatasetEntry `json:"datasets"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`

	// Not serialized: on-disk location of the run.json
	rootDir string `json:"-"`
}

// Status of one dataset within a run.
type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// DatasetEntry is the outcome for one input file.
type DatasetEntry struct {
	ID              string       `json:"id"`
	Source          string       `json:"source"`
	Output          string       `json:"output,omitempty"`
	Status          Status       `json:"status"`
	Error           string       `json:"error,omitempty"`
	Rows            int          `json:"rows"`
	Cols            int          `json:"cols"`
	CategoricalCols int          `json:"categorical_cols"`
	Pivot           pivot.Result `json:"pivot"`
	ProcessedAt     time.Time    `json:"processed_at"`
}

// NewRun constructs an in-memory run under runsDir. Call Save() to persist.
func NewRun(name, runsDir string, seed uint64, policy string) *Run {
	id := uuid.NewString()
	now := time.Now()
	return &Run{
		ID:             id,
		Name:           name,
		Seed:           seed,
		ConstantPolicy: policy,
		Datasets:       make(map[string]*DatasetEntry),
		CreatedAt:      now,
		UpdatedAt:      now,
		rootDir:        filepath.Join(runsDir, id),
	}
}

// LoadRun loads a run.json from the provided directory.
func LoadRun(dir string) (*Run, error) {
	path := filepath.Join(dir, runFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("run not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read run: %w", err)
	}
	var r Run
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse run: %w", err)
	}
	r.rootDir = dir
	return &r, nil
}

// RootDir returns the on-disk run directory path.
func (r *Run) RootDir() string { return r.rootDir }

// Save writes run.json using atomic write.
func (r *Run) Save() error {
	if r.rootDir == "" {
		return errors.New("run root directory not set")
	}
	if err := utils.EnsureDir(r.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	r.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(r)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(r.rootDir, runFileName), data)
}

// AddDataset records e under a fresh ID and returns it.
func (r *Run) AddDataset(e *DatasetEntry) string {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ProcessedAt.IsZero() {
		e.ProcessedAt = time.Now()
	}
	if r.Datasets == nil {
		r.Datasets = make(map[string]*DatasetEntry)
	}
	r.Datasets[e.ID] = e
	r.UpdatedAt = time.Now()
	return e.ID
}

// Entries returns the datasets ordered by source path.
func (r *Run) Entries() []*DatasetEntry {
	out := make([]*DatasetEntry, 0, len(r.Datasets))
	for _, e := range r.Datasets {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

// Counts tallies entries by status.
func (r *Run) Counts() map[Status]int {
	m := map[Status]int{}
	for _, e := range r.Datasets {
		m[e.Status]++
	}
	return m
}

// ListRuns loads every run under runsDir, newest first. A missing
// directory yields no runs.
func ListRuns(runsDir string) ([]*Run, error) {
	entries, err := os.ReadDir(runsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read runs dir: %w", err)
	}
	var runs []*Run
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		r, err := LoadRun(filepath.Join(runsDir, e.Name()))
		if err != nil {
			continue
		}
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	return runs, nil
}

// FindRun returns the run whose ID or name matches ref. An ID prefix is
// accepted when it is unambiguous.
func FindRun(runsDir, ref string) (*Run, error) {
	runs, err := ListRuns(runsDir)
	if err != nil {
		return nil, err
	}
	var matches []*Run
	for _, r := range runs {
		if r.ID == ref || r.Name == ref {
			return r, nil
		}
		if strings.HasPrefix(r.ID, ref) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("run %q not found in %s", ref, runsDir)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run %q is ambiguous (%d matches)", ref, len(matches))
	}
}
