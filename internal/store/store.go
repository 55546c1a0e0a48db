// Package store persists the rolling temperature histories as a JSON
// snapshot so the graph survives restarts. Persistence is best-effort:
// a missing or malformed snapshot is treated as empty history, never
// as a fatal error.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/luki/thermo/internal/sensor"
)

// snapshot is the on-disk document: two arrays of numbers-or-nulls,
// oldest first.
type snapshot struct {
	History1 []*float64 `json:"history_1"`
	History2 []*float64 `json:"history_2"`
}

// FileStore reads and writes history snapshots at a fixed path.
type FileStore struct {
	path string
}

// New creates a file store for the given snapshot path.
func New(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the snapshot location.
func (f *FileStore) Path() string {
	return f.path
}

// Save writes both histories (oldest-first) to disk. The write goes
// through a temp file and rename so a crash mid-write cannot corrupt
// the previous snapshot.
func (f *FileStore) Save(h1, h2 []sensor.Sample) error {
	doc := snapshot{History1: encode(h1), History2: encode(h2)}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads both histories back, oldest-first. Any error, including a
// missing file or unparseable content, means "no prior snapshot"; the
// caller pads or truncates the sequences to its window length.
func (f *FileStore) Load() (h1, h2 []sensor.Sample, err error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, nil, err
	}
	var doc snapshot
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return decode(doc.History1), decode(doc.History2), nil
}

func encode(samples []sensor.Sample) []*float64 {
	out := make([]*float64, len(samples))
	for i, s := range samples {
		if s.OK {
			v := s.C
			out[i] = &v
		}
	}
	return out
}

func decode(values []*float64) []sensor.Sample {
	out := make([]sensor.Sample, len(values))
	for i, v := range values {
		if v != nil {
			out[i] = sensor.Value(*v)
		}
	}
	return out
}
