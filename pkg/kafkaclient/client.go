// Package kafkaclient wraps a kafka-go reader in a channel based consumer
// with manual offset commits.
package kafkaclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaReader is the subset of *kafka.Reader the consumer needs.
type KafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config selects the topic and consumer group to read.
type Config struct {
	Broker  string
	Topic   string
	GroupID string
	// Backoff is the pause after a read error. Defaults to one second.
	Backoff time.Duration
}

// KafkaConsumer pumps messages from a reader into a channel until it is
// stopped or its context ends.
type KafkaConsumer struct {
	reader      KafkaReader
	log         *slog.Logger
	backoff     time.Duration
	doneChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
	messageChan chan kafka.Message
}

// NewKafkaConsumer creates a consumer for cfg. Offsets are only committed
// through CommitOffset.
func NewKafkaConsumer(cfg Config, log *slog.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.Broker},
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		CommitInterval: 0,
		MinBytes:       1,
		MaxBytes:       10e6,
	})
	return newConsumer(reader, cfg.Backoff, log)
}

func newConsumer(reader KafkaReader, backoff time.Duration, log *slog.Logger) *KafkaConsumer {
	if log == nil {
		log = slog.Default()
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	return &KafkaConsumer{
		reader:      reader,
		log:         log,
		backoff:     backoff,
		doneChan:    make(chan struct{}),
		messageChan: make(chan kafka.Message),
	}
}

// Messages returns the consumed messages. It is closed when the loop exits.
func (kc *KafkaConsumer) Messages() <-chan kafka.Message {
	return kc.messageChan
}

// CommitOffset marks msg as processed for the consumer group.
func (kc *KafkaConsumer) CommitOffset(ctx context.Context, msg kafka.Message) error {
	kc.log.Debug("committing offset", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
	return kc.reader.CommitMessages(ctx, msg)
}

// StartConsuming runs the read loop in a goroutine.
func (kc *KafkaConsumer) StartConsuming(ctx context.Context) {
	kc.wg.Add(1)
	go func() {
		defer kc.wg.Done()
		defer close(kc.messageChan)

		kc.log.Info("kafka consumer started")
		for {
			select {
			case <-ctx.Done():
				kc.log.Info("context canceled, stopping consumer")
				return
			case <-kc.doneChan:
				kc.log.Info("stop requested, stopping consumer")
				return
			default:
			}

			msg, err := kc.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
					return
				}
				kc.log.Warn("reading message", "err", err)
				select {
				case <-time.After(kc.backoff):
				case <-ctx.Done():
					return
				case <-kc.doneChan:
					return
				}
				continue
			}

			select {
			case kc.messageChan <- msg:
				kc.log.Debug("message received", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
			case <-ctx.Done():
				return
			case <-kc.doneChan:
				return
			}
		}
	}()
}

// Stop ends the read loop and closes the reader. It is safe to call twice.
func (kc *KafkaConsumer) Stop() {
	kc.stopOnce.Do(func() {
		close(kc.doneChan)
		if err := kc.reader.Close(); err != nil {
			kc.log.Error("closing kafka reader", "err", err)
		}
		kc.wg.Wait()
		kc.log.Info("kafka consumer stopped")
	})
}
