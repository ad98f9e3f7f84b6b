package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Event is the envelope written to every topic.
type Event struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EventBus publishes events. Implementations must be safe for concurrent use.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close()
}

// NewJSONEvent encodes payload into an Event. An empty id gets a random UUID.
func NewJSONEvent(id, eventType string, payload any) (Event, error) {
	if id == "" {
		id = uuid.NewString()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("eventbus: marshal payload: %w", err)
	}
	return Event{ID: id, Type: eventType, Payload: b}, nil
}

// DecodeJSON unmarshals the payload of evt into T.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("eventbus: unmarshal payload: %w", err)
	}
	return out, nil
}

// BrokersFromEnv returns KAFKA_BOOTSTRAP_SERVERS, or "" when Kafka is not configured.
func BrokersFromEnv() string {
	return strings.TrimSpace(os.Getenv("KAFKA_BOOTSTRAP_SERVERS"))
}
