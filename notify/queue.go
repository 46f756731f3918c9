package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Notification kinds dispatched by the core. Consumers (mailers, push
// senders) own formatting and delivery; the core's contract ends at enqueue.
const (
	KindEnrollmentPaid = "enrollment.paid"
	KindMatchFinalized = "match.finalized"
	KindMatchCancelled = "match.cancelled"
	KindRoundPublished = "round.published"
	KindClubsAdvanced  = "round.clubs_advanced"
)

// Queue is the asynchronous task-queue collaborator. Delivery is
// at-least-once with no ordering guarantee relative to the triggering state
// change.
type Queue interface {
	Enqueue(ctx context.Context, kind string, payload interface{}) error
	Close() error
}

type kafkaQueue struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaQueue creates a queue publishing to a single notifications topic,
// keyed by kind. If brokers is empty the queue is a no-op.
func NewKafkaQueue(brokers, topic string, logger *slog.Logger) Queue {
	if brokers == "" {
		logger.Info("notification queue disabled, events will be dropped")
		return &noopQueue{}
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("notification queue initialized", slog.String("brokers", brokers), slog.String("topic", topic))
	return &kafkaQueue{writer: w, logger: logger}
}

func (q *kafkaQueue) Enqueue(ctx context.Context, kind string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", kind, err)
	}

	return q.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(kind),
		Value: value,
	})
}

func (q *kafkaQueue) Close() error {
	return q.writer.Close()
}

type noopQueue struct{}

func (*noopQueue) Enqueue(context.Context, string, interface{}) error { return nil }
func (*noopQueue) Close() error                                       { return nil }

// NewNoopQueue returns a queue that drops everything. Used in tests and when
// no brokers are configured.
func NewNoopQueue() Queue { return &noopQueue{} }

// Dispatch enqueues in the background so callers never block on delivery.
// Failures are logged and dropped; the triggering state change has already
// committed.
func Dispatch(logger *slog.Logger, q Queue, kind string, payload interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := q.Enqueue(ctx, kind, payload); err != nil {
			logger.Error("failed to enqueue notification",
				slog.String("kind", kind), slog.Any("error", err))
		}
	}()
}
