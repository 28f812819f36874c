// Package ports defines the interfaces between the visit counter
// application and its adapters.
package ports

import (
	"context"
	"time"
)

// CounterStore is the external key-value store holding the visit counter
type CounterStore interface {
	// Ping verifies the store answers requests
	Ping(ctx context.Context) error

	// Increment atomically increments the counter and returns the new value
	Increment(ctx context.Context) (int64, error)

	// Current returns the counter as stored. found is false when the
	// counter has never been incremented.
	Current(ctx context.Context) (value string, found bool, err error)
}

// MetricsRecorder records service metrics
type MetricsRecorder interface {
	RecordPageView()
	RecordStoreError(operation string)
	SetStoreUp(up bool)
}

// VisitEvent is published after every successful counter increment
type VisitEvent struct {
	ID        string    `json:"id"`
	Visits    int64     `json:"visits"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher publishes visit events to live subscribers
type EventPublisher interface {
	Publish(ctx context.Context, event VisitEvent) error
}

// EventSubscriber delivers visit events until ctx is done
type EventSubscriber interface {
	Subscribe(ctx context.Context) (<-chan VisitEvent, error)
}
