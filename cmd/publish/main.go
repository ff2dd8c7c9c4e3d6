// Command publish uploads the local dataset of every configured source to
// the dataset bucket, creating the bucket when needed. Each upload produces a
// bucket notification that running watchers pick up.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"spazi/internal/config"
	"spazi/internal/dataset"
	"spazi/internal/env"
	"spazi/internal/logger"
	"spazi/internal/storage"
	"spazi/pkg/location"
)

func main() {
	env.LoadEnv()
	log := logger.Setup()

	configPath := flag.String("config", env.GetEnv("SPOTLIGHT_CONFIG", "config.yaml"), "path to the map configuration")
	root := flag.String("root", env.GetEnv("DATASET_ROOT", "."), "directory holding the source JSON files")
	only := flag.String("source", "", "publish only this source")
	geocode := flag.Bool("geocode", false, "look up missing coordinates from the address field")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	s3Service, err := storage.NewS3Service(log)
	if err != nil {
		log.Error("Failed to connect to object storage", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	start := time.Now()
	if err := s3Service.CreateBucket(ctx, os.Getenv("MINIO_REGION")); err != nil {
		log.Error("Failed to create bucket", "bucket", s3Service.Bucket(), "err", err)
		os.Exit(1)
	}

	local := storage.FileStore{Root: *root}
	var geocoder *location.Geocoder
	if *geocode {
		geocoder = location.NewGeocoder()
		geocoder.BaseURL = env.GetEnv("GEOCODER_URL", location.DefaultBaseURL)
	}
	failed := 0
	for _, src := range cfg.Sources {
		if *only != "" && src.ID != *only {
			continue
		}
		records, err := local.Fetch(ctx, src)
		if err != nil {
			log.Error("Failed to read dataset", "source", src.ID, "err", err)
			failed++
			continue
		}
		if geocoder != nil {
			if _, err := dataset.FillCoordinates(ctx, geocoder, src, records, log); err != nil {
				log.Error("Geocoding interrupted", "source", src.ID, "err", err)
			}
		}
		if err := s3Service.PutDataset(ctx, src, records); err != nil {
			log.Error("Failed to publish dataset", "source", src.ID, "err", err)
			failed++
		}
	}

	log.Info("Finished publishing", "took", time.Since(start).String(), "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}
