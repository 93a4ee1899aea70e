package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type captureNotifier struct {
	events []Event
	err    error
}

func (n *captureNotifier) Notify(_ context.Context, event Event) error {
	n.events = append(n.events, event)
	return n.err
}

func TestEmitFansOut(t *testing.T) {
	first := &captureNotifier{}
	second := &captureNotifier{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	bus := &Bus{Notifiers: []Notifier{first, second}, Now: func() time.Time { return now }}

	ev := bus.Emit(context.Background(), TopicSaleRecorded, map[string]any{"drinkId": int64(1)})
	if ev.Topic != TopicSaleRecorded {
		t.Fatalf("unexpected topic %q", ev.Topic)
	}
	if !ev.OccurredAt.Equal(now) {
		t.Fatalf("unexpected timestamp %v", ev.OccurredAt)
	}
	if len(first.events) != 1 || len(second.events) != 1 {
		t.Fatalf("expected both notifiers called, got %d/%d", len(first.events), len(second.events))
	}
}

func TestEmitSwallowsNotifierErrors(t *testing.T) {
	failing := &captureNotifier{err: errors.New("notify failed")}
	healthy := &captureNotifier{}
	bus := &Bus{Notifiers: []Notifier{failing, healthy}}

	bus.Emit(context.Background(), TopicPricesReset, nil)
	if len(healthy.events) != 1 {
		t.Fatal("failing notifier must not block the others")
	}
}

func TestEmitEmptyTopicIsNoOp(t *testing.T) {
	n := &captureNotifier{}
	bus := &Bus{Notifiers: []Notifier{n}}

	bus.Emit(context.Background(), "   ", nil)
	if len(n.events) != 0 {
		t.Fatalf("expected no dispatch, got %d", len(n.events))
	}
}
