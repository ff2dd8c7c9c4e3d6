package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"spazi/internal/config"
	"spazi/internal/env"
	"spazi/pkg/geo"
)

// Fetcher loads the raw records of a source.
type Fetcher interface {
	Fetch(ctx context.Context, src config.Source) ([]geo.Record, error)
}

// Open returns the backend named by DATASET_BACKEND: "file" (the default,
// rooted at DATASET_ROOT) or "minio".
func Open(log *slog.Logger) (Fetcher, error) {
	if log == nil {
		log = slog.Default()
	}
	switch backend := strings.ToLower(env.GetEnv("DATASET_BACKEND", "file")); backend {
	case "file":
		root := env.GetEnv("DATASET_ROOT", ".")
		log.Info("Reading datasets from disk", "root", root)
		return FileStore{Root: root}, nil
	case "minio", "s3":
		s3, err := NewS3Service(log)
		if err != nil {
			return nil, err
		}
		return s3, nil
	default:
		return nil, fmt.Errorf("unknown DATASET_BACKEND %q", backend)
	}
}
