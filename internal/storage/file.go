// Package storage fetches source datasets, JSON arrays of records, from the
// local filesystem or from S3-compatible object storage.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"spazi/internal/config"
	"spazi/pkg/geo"
)

// FileStore reads datasets relative to Root.
type FileStore struct {
	Root string
}

func (f FileStore) path(src config.Source) string {
	name := src.File
	if name == "" {
		name = src.ID + ".json"
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(f.Root, name)
}

// Fetch loads the dataset of src.
func (f FileStore) Fetch(ctx context.Context, src config.Source) ([]geo.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := f.path(src)
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", p, err)
	}
	var records []geo.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", p, err)
	}
	return records, nil
}
