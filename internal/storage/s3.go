package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"spazi/internal/config"
	"spazi/internal/keys"
	"spazi/pkg/geo"
)

// S3Service reads and writes datasets in S3-compatible storage.
type S3Service struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

// NewS3Service initializes and returns a new S3 storage service.
// It connects to the MinIO server using credentials from environment
// variables and reads datasets from DATASET_BUCKET.
func NewS3Service(log *slog.Logger) (*S3Service, error) {
	if log == nil {
		log = slog.Default()
	}
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"
	bucket := os.Getenv("DATASET_BUCKET")

	if minioEndpoint == "" || minioAccessKey == "" || minioSecretKey == "" || bucket == "" {
		return nil, fmt.Errorf("missing one or more required environment variables: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY, DATASET_BUCKET")
	}

	minioClient, err := minio.New(minioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(minioAccessKey, minioSecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	log.Info("Connected to MinIO", "endpoint", minioEndpoint, "bucket", bucket)
	return &S3Service{client: minioClient, bucket: bucket, log: log}, nil
}

// Bucket is the bucket datasets are read from.
func (s *S3Service) Bucket() string {
	return s.bucket
}

// ObjectKey is the key a source's dataset is stored under.
func ObjectKey(src config.Source) string {
	if src.Object != "" {
		return src.Object
	}
	return keys.Dataset(src.ID)
}

func (s *S3Service) CreateBucket(ctx context.Context, location string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: location})
}

// Fetch loads the dataset of src.
func (s *S3Service) Fetch(ctx context.Context, src config.Source) ([]geo.Record, error) {
	return s.GetDataset(ctx, s.bucket, ObjectKey(src))
}

// GetDataset streams a JSON array of records from bucket/key.
func (s *S3Service) GetDataset(ctx context.Context, bucket, key string) ([]geo.Record, error) {
	object, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	defer object.Close()

	var records []geo.Record
	if err := json.NewDecoder(object).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s/%s: %w", bucket, key, err)
	}

	s.log.Debug("Retrieved dataset", "bucket", bucket, "key", key, "records", len(records))
	return records, nil
}

// PutDataset uploads records as the dataset of src, replacing any previous
// version.
func (s *S3Service) PutDataset(ctx context.Context, src config.Source, records []geo.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	key := ObjectKey(src)
	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("failed to store dataset %s: %w", key, err)
	}
	s.log.Info("Stored dataset", "source", src.ID, "bucket", s.bucket, "key", key, "records", len(records))
	return nil
}
