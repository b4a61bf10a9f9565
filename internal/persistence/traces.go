package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// TraceDir keeps one trace file per run id inside a directory.
type TraceDir struct {
	Dir string
}

// NewTraceDir returns a manager rooted at dir.
func NewTraceDir(dir string) *TraceDir {
	return &TraceDir{Dir: dir}
}

// Path is the trace file of a run.
func (t *TraceDir) Path(runID string) string {
	return filepath.Join(t.Dir, runID+".jsonl")
}

// Create makes the directory if needed and opens a fresh trace for runID.
func (t *TraceDir) Create(runID string) (*Store, error) {
	if err := os.MkdirAll(t.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", t.Dir, err)
	}
	path := t.Path(runID)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("trace %s already exists", path)
	}
	return NewStore(path)
}

// List returns the run ids with a trace, sorted.
func (t *TraceDir) List() ([]string, error) {
	entries, err := os.ReadDir(t.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			ids = append(ids, strings.TrimSuffix(e.Name(), ".jsonl"))
		}
	}
	slices.Sort(ids)
	return ids, nil
}
