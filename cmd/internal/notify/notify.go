package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"space-traveling/cmd/internal/eventbus"
	"space-traveling/logger"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a user-facing message, shown as a toast.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// New stamps a notification with an ID and the current time.
func New(level Level, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// ErrDropped is returned by ChannelNotifier when its buffer is full.
var ErrDropped = errors.New("notification dropped")

// ChannelNotifier buffers notifications in process for a single consumer.
type ChannelNotifier struct {
	ch chan Notification
}

func NewChannelNotifier(buffer int) *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan Notification, buffer)}
}

// Notify never blocks; a full buffer drops n.
func (c *ChannelNotifier) Notify(_ context.Context, n Notification) error {
	select {
	case c.ch <- n:
		return nil
	default:
		return ErrDropped
	}
}

// C is the receive side.
func (c *ChannelNotifier) C() <-chan Notification { return c.ch }

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n Notification) error {
	fields := logger.Fields{"notification_id": n.ID, "level": string(n.Level)}
	if n.Level == LevelError {
		logger.WarnWithFields(n.Message, fields)
		return nil
	}
	logger.InfoWithFields(n.Message, fields)
	return nil
}

// EventBusNotifier publishes notifications to a topic.
type EventBusNotifier struct {
	bus   eventbus.EventBus
	topic string
}

func NewEventBusNotifier(bus eventbus.EventBus, topic string) *EventBusNotifier {
	return &EventBusNotifier{bus: bus, topic: topic}
}

func (e *EventBusNotifier) Notify(ctx context.Context, n Notification) error {
	evt, err := eventbus.NewJSONEvent(n.ID, "notification", n)
	if err != nil {
		return err
	}
	return e.bus.Publish(ctx, e.topic, evt)
}

// Multi fans a notification out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, nt := range m {
		if err := nt.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
