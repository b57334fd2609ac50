package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherPublishSubscribe(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	ctx := context.Background()

	var seen []int64
	dispatcher.Subscribe(EventTicketCreated, func(ctx context.Context, ev Event) error {
		seen = append(seen, ev.TicketID)
		return nil
	})

	if err := dispatcher.Publish(ctx, Event{Type: EventTicketCreated, TicketID: 1}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := dispatcher.Publish(ctx, Event{Type: EventTicketResolved, TicketID: 2}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(seen) != 1 || seen[0] != 1 {
		t.Fatalf("handler saw %v, want [1]", seen)
	}
}

func TestDispatcherHandlerErrorsDoNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	ctx := context.Background()

	dispatcher.Subscribe(EventTicketResolved, func(ctx context.Context, ev Event) error {
		return errors.New("boom")
	})
	called := false
	dispatcher.Subscribe(EventTicketResolved, func(ctx context.Context, ev Event) error {
		called = true
		return nil
	})

	if err := dispatcher.Publish(ctx, Event{Type: EventTicketResolved}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !called {
		t.Fatal("second handler not invoked after first returned error")
	}
}
