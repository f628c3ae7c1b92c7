// Package notify emits real-time notification events to the ordering user's
// channel. Events are published to a Kafka topic keyed by the user's identity,
// so a subscriber fanning out to connected clients sees all events for one
// user on one partition. Delivery is at-most-once and fire-and-forget: the
// writer runs async and failures are logged, never surfaced to callers.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event is the single wire event type, broadcast to a per-user room.
type Event struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

var writer *kafka.Writer

func InitWriter(brokers []string, topic string) {
	writer = kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
		Async:    true,
	})
}

func CloseWriter() error {
	if writer != nil {
		return writer.Close()
	}
	return nil
}

// Emit publishes ev to the channel scoped to uid. No-op when no writer is
// configured.
func Emit(ctx context.Context, uid string, ev Event) {
	if writer == nil || uid == "" {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		log.Printf("notify: marshal event: %v", err)
		return
	}
	if err := writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(uid),
		Value: b,
		Time:  time.Now(),
	}); err != nil {
		log.Printf("notify: emit to %s: %v", uid, err)
	}
}
