package service

import (
	"context"

	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/segmentio/kafka-go"
)

// MessageIterator is the consumer side the Iterator reads bucket
// notifications from. Implementations own the consumer lifecycle and close
// the Messages channel when they stop.
type MessageIterator interface {
	Messages() <-chan kafka.Message
	CommitOffset(ctx context.Context, msg kafka.Message) error
}

// LoaderFunc loads and decodes the object a notification points at.
type LoaderFunc[T any] func(ctx context.Context, bucket, key string) (T, error)

// FetchedObject pairs a loaded object with where it came from.
type FetchedObject[T any] struct {
	Bucket string
	// Key is the unescaped object key.
	Key   string
	Data  T
	Event notification.Event
}
