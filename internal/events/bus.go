package events

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Topic constants for domain events emitted by the till.
const (
	TopicSaleRecorded = "sale.recorded"
	TopicOrderCreated = "order.created"
	TopicPricesReset  = "prices.reset"
	TopicDrinkDeleted = "drink.deleted"
)

// Event is one in-process domain event.
type Event struct {
	Topic      string
	OccurredAt time.Time
	Payload    map[string]any
}

// Notifier reacts to emitted events (logging, metrics, etc.).
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Bus fans domain events out to the configured notifiers. Notifier failures
// are logged, never propagated into the emitting request.
type Bus struct {
	Notifiers []Notifier
	Logger    zerolog.Logger
	Now       func() time.Time
}

// Emit dispatches the event to all configured notifiers.
func (b *Bus) Emit(ctx context.Context, topic string, payload map[string]any) Event {
	topic = strings.TrimSpace(topic)
	ev := Event{Topic: topic, OccurredAt: b.now(), Payload: payload}
	if b == nil || topic == "" {
		return ev
	}
	for _, notifier := range b.Notifiers {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, ev); err != nil {
			b.Logger.Error().Err(err).Str("topic", topic).Msg("event notifier failed")
		}
	}
	return ev
}

func (b *Bus) now() time.Time {
	if b != nil && b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// LogNotifier writes every event to the structured log.
type LogNotifier struct {
	Logger zerolog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(_ context.Context, event Event) error {
	n.Logger.Info().
		Str("topic", event.Topic).
		Time("occurred_at", event.OccurredAt).
		Fields(map[string]any{"payload": event.Payload}).
		Msg("domain_event")
	return nil
}
