// Package pubsub provides a generic publish/subscribe event system used to fan
// editor activity (autoformat transforms, log lines) out to the playground.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// AppliedEvent reports a markdown transform that was applied to a document.
	AppliedEvent EventType = "applied"
	// RevertedEvent reports a transform undone by the pending-undo backspace.
	RevertedEvent EventType = "reverted"
	// LoggedEvent carries a formatted log entry.
	LoggedEvent EventType = "logged"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
