// Package store persists the performance dataset to local files.
//
// The dataset is kept as two synchronized serializations of the same ordered
// record sequence: a JSON array that round-trips nulls, and a CSV table for
// spreadsheet use. Both are rewritten in full on every checkpoint; writes go
// through a temp file and rename so an interrupted checkpoint never
// truncates the previous one.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rijenmdr/Web-Performance-Datasets/internal/psi"
)

// Dataset reads and checkpoints the persisted result set.
type Dataset struct {
	jsonPath string
	csvPath  string
	logger   *zap.Logger
}

// NewDataset creates a Dataset writing to the given file paths, creating
// parent directories as needed.
func NewDataset(jsonPath, csvPath string, logger *zap.Logger) (*Dataset, error) {
	if jsonPath == "" || csvPath == "" {
		return nil, fmt.Errorf("dataset paths are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, p := range []string{jsonPath, csvPath} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create dataset dir %s: %w", dir, err)
			}
		}
	}
	return &Dataset{jsonPath: jsonPath, csvPath: csvPath, logger: logger}, nil
}

// Load reads the prior result sequence from the JSON form. A missing file
// yields an empty sequence; a corrupt file is logged and treated as empty so
// a damaged dataset degrades to a fresh run instead of blocking it.
func (d *Dataset) Load() []psi.Record {
	raw, err := os.ReadFile(d.jsonPath)
	if err != nil {
		if !os.IsNotExist(err) {
			d.logger.Warn("could not read existing dataset; starting empty",
				zap.String("path", d.jsonPath), zap.Error(err))
		}
		return nil
	}
	var records []psi.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		d.logger.Warn("could not parse existing dataset; starting empty",
			zap.String("path", d.jsonPath), zap.Error(err))
		return nil
	}
	return records
}

// Checkpoint rewrites both serializations in full.
func (d *Dataset) Checkpoint(ctx context.Context, records []psi.Record) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	if err := d.writeJSON(records); err != nil {
		return err
	}
	if err := d.writeCSV(records); err != nil {
		return err
	}
	d.logger.Debug("checkpoint written", zap.Int("records", len(records)))
	return nil
}

func (d *Dataset) writeJSON(records []psi.Record) error {
	if records == nil {
		records = []psi.Record{}
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if err := writeFileAtomic(d.jsonPath, payload); err != nil {
		return fmt.Errorf("write json dataset: %w", err)
	}
	return nil
}

// writeFileAtomic writes data to a sibling temp file and renames it over
// path, so readers and crash recovery only ever see complete checkpoints.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()           //nolint:errcheck
		os.Remove(tmpName)    //nolint:errcheck
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
