package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/segmentio/kafka-go"
)

type LogMessage struct {
	Level     string            `json:"level"`
	Module    string            `json:"module"`
	Message   string            `json:"message"`
	TraceID   string            `json:"trace_id"`
	Env       string            `json:"env"`
	Timestamp time.Time         `json:"timestamp"`
	Extra     map[string]string `json:"extra"`
}

// RunLogPusher consumes request-log messages from Kafka and bulk-indexes them
// into Elasticsearch. It blocks until ctx is cancelled, flushing partial
// batches on a timer so slow traffic still reaches the index.
func RunLogPusher(ctx context.Context) {
	brokers := strings.Split(envOr("KAFKA_BROKERS", "localhost:9092"), ",")
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   envOr("KAFKA_LOG_TOPIC", "order-api-logs"),
		GroupID: "es-pusher",
	})
	defer kafkaReader.Close()

	es, err := elasticsearch.NewDefaultClient()
	if err != nil {
		log.Printf("log pusher: elasticsearch client: %v", err)
		return
	}
	index := envOr("ES_LOG_INDEX", "order-api-logs")

	const batchSize = 100
	const batchTimeout = 5 * time.Second

	flushBatch := func(batch []LogMessage) {
		var buf bytes.Buffer
		for _, logMsg := range batch {
			docBytes, err := json.Marshal(logMsg)
			if err != nil {
				log.Printf("log pusher: marshal: %v", err)
				continue
			}
			buf.WriteString("{\"index\":{}}\n")
			buf.Write(docBytes)
			buf.WriteString("\n")
		}
		res, err := es.Bulk(bytes.NewReader(buf.Bytes()), es.Bulk.WithIndex(index))
		if err != nil {
			log.Printf("log pusher: bulk index: %v", err)
		} else {
			res.Body.Close()
		}
	}

	// The reader runs in its own goroutine so the batcher can multiplex
	// incoming messages with the flush ticker; a partial batch must not wait
	// for the next message to arrive.
	messages := make(chan LogMessage)
	go func() {
		defer close(messages)
		for {
			m, err := kafkaReader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("log pusher: kafka read: %v", err)
				continue
			}

			var logMsg LogMessage
			if err := json.Unmarshal(m.Value, &logMsg); err != nil {
				log.Printf("log pusher: decode: %v", err)
				continue
			}

			if logMsg.Timestamp.IsZero() {
				logMsg.Timestamp = time.Now()
			}

			select {
			case messages <- logMsg:
			case <-ctx.Done():
				return
			}
		}
	}()

	runBatcher(ctx, messages, batchSize, batchTimeout, flushBatch)
}

// runBatcher collects messages into batches and flushes a batch when it is
// full, when the interval elapses, or on shutdown.
func runBatcher(ctx context.Context, messages <-chan LogMessage, batchSize int, interval time.Duration, flush func([]LogMessage)) {
	batch := make([]LogMessage, 0, batchSize)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	drain := func() {
		if len(batch) == 0 {
			return
		}
		flush(batch)
		batch = make([]LogMessage, 0, batchSize)
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			return
		case logMsg, ok := <-messages:
			if !ok {
				drain()
				return
			}
			batch = append(batch, logMsg)
			if len(batch) >= batchSize {
				drain()
			}
		case <-ticker.C:
			drain()
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
