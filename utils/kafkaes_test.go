package utils

import (
	"context"
	"testing"
	"time"
)

func TestRunBatcherFlushesPartialBatchOnInterval(t *testing.T) {
	messages := make(chan LogMessage)
	flushed := make(chan []LogMessage, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		runBatcher(ctx, messages, 100, 20*time.Millisecond, func(batch []LogMessage) {
			flushed <- append([]LogMessage(nil), batch...)
		})
		close(done)
	}()

	messages <- LogMessage{Level: "INFO", Message: "single entry"}

	// The batch is nowhere near full; only the interval can flush it.
	select {
	case batch := <-flushed:
		if len(batch) != 1 || batch[0].Message != "single entry" {
			t.Fatalf("unexpected batch: %+v", batch)
		}
	case <-time.After(time.Second):
		t.Fatal("partial batch was not flushed on the interval")
	}

	cancel()
	<-done
}

func TestRunBatcherFlushesFullBatchImmediately(t *testing.T) {
	messages := make(chan LogMessage)
	flushed := make(chan []LogMessage, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runBatcher(ctx, messages, 2, time.Hour, func(batch []LogMessage) {
		flushed <- append([]LogMessage(nil), batch...)
	})

	messages <- LogMessage{Message: "first"}
	messages <- LogMessage{Message: "second"}

	select {
	case batch := <-flushed:
		if len(batch) != 2 {
			t.Fatalf("expected a batch of 2, got %d", len(batch))
		}
	case <-time.After(time.Second):
		t.Fatal("full batch was not flushed")
	}
}

func TestRunBatcherDrainsOnShutdown(t *testing.T) {
	messages := make(chan LogMessage)
	flushed := make(chan []LogMessage, 1)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		runBatcher(ctx, messages, 100, time.Hour, func(batch []LogMessage) {
			flushed <- append([]LogMessage(nil), batch...)
		})
		close(done)
	}()

	messages <- LogMessage{Message: "pending"}
	cancel()
	<-done

	select {
	case batch := <-flushed:
		if len(batch) != 1 {
			t.Fatalf("expected the pending entry, got %d entries", len(batch))
		}
	default:
		t.Fatal("pending batch was dropped on shutdown")
	}
}
