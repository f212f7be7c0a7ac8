package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/dyluth/peoplelint/internal/store"
)

// Handler is called for every result event. Returning an error stops Stream.
type Handler func(store.ResultEvent) error

// Stream delivers the run's result events to handle until ctx is done.
// Returns nil when ctx is cancelled.
func Stream(ctx context.Context, client *store.Client, handle Handler) error {
	sub := client.Subscribe(ctx)
	defer sub.Close()

	// Wait for the subscription to be confirmed before reading messages
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to subscribe to result events: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event store.ResultEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("[Watch] skipping malformed event: %v", err)
				continue
			}
			if err := handle(event); err != nil {
				return err
			}
		}
	}
}

// FormatEvent renders an event as one line.
func FormatEvent(event store.ResultEvent) string {
	if event.ErrorCount == 0 {
		return fmt.Sprintf("✅ %s: clean", event.Abbr)
	}
	noun := "errors"
	if event.ErrorCount == 1 {
		noun = "error"
	}
	return fmt.Sprintf("❌ %s: %d %s", event.Abbr, event.ErrorCount, noun)
}

// Printer returns a Handler writing FormatEvent lines to w.
func Printer(w io.Writer) Handler {
	return func(event store.ResultEvent) error {
		_, err := fmt.Fprintln(w, FormatEvent(event))
		return err
	}
}
