// Package service turns object-store notifications delivered over Kafka into
// loaded objects. The watcher uses it to reload datasets whenever a new
// version is uploaded to the bucket.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/segmentio/kafka-go"
)

// Iterator reads MinIO/S3 notification messages, loads each referenced
// object with its LoaderFunc and streams the results.
type Iterator[T any] struct {
	msgIterator MessageIterator
	loader      LoaderFunc[T]
	log         *slog.Logger
	// Accept filters objects before loading; nil accepts everything.
	Accept func(bucket, key string) bool
}

func NewIterator[T any](iterator MessageIterator, loader LoaderFunc[T], log *slog.Logger) *Iterator[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Iterator[T]{
		msgIterator: iterator,
		loader:      loader,
		log:         log,
	}
}

// Objects streams one FetchedObject per notification record that loads
// successfully. Malformed messages and failed loads are logged and skipped.
// A message is committed once all of its records have been handled, so an
// object that keeps failing does not block the partition. The channel is
// closed when the message source closes or ctx is done.
func (it *Iterator[T]) Objects(ctx context.Context) <-chan *FetchedObject[T] {
	out := make(chan *FetchedObject[T])
	go func() {
		defer close(out)

		for msg := range it.msgIterator.Messages() {
			var info notification.Info
			if err := json.Unmarshal(msg.Value, &info); err != nil {
				it.log.Warn("skipping malformed notification", "offset", msg.Offset, "err", err)
				it.commit(ctx, msg)
				continue
			}

			for _, event := range info.Records {
				key, err := url.QueryUnescape(event.S3.Object.Key)
				if err != nil {
					it.log.Warn("skipping undecodable object key", "key", event.S3.Object.Key, "err", err)
					continue
				}
				bucket := event.S3.Bucket.Name
				if it.Accept != nil && !it.Accept(bucket, key) {
					it.log.Debug("ignoring object", "bucket", bucket, "key", key)
					continue
				}
				data, err := it.loader(ctx, bucket, key)
				if err != nil {
					it.log.Error("loading object", "bucket", bucket, "key", key, "err", err)
					continue
				}
				select {
				case out <- &FetchedObject[T]{Bucket: bucket, Key: key, Data: data, Event: event}:
				case <-ctx.Done():
					return
				}
			}
			it.commit(ctx, msg)
		}
	}()
	return out
}

func (it *Iterator[T]) commit(ctx context.Context, msg kafka.Message) {
	if err := it.msgIterator.CommitOffset(ctx, msg); err != nil {
		it.log.Error("committing offset", "offset", msg.Offset, "err", err)
	}
}
