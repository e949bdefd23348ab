package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pos-toko/internal/events"
	"github.com/noah-isme/pos-toko/internal/store"
)

type stubStore struct {
	inserted []store.DomainEvent
	fail     error
}

func (s *stubStore) InsertDomainEvent(_ context.Context, ev store.DomainEvent) error {
	if s.fail != nil {
		return s.fail
	}
	s.inserted = append(s.inserted, ev)
	return nil
}

type captureNotifier struct {
	events []store.DomainEvent
	fail   error
}

func (c *captureNotifier) Notify(_ context.Context, event store.DomainEvent) error {
	c.events = append(c.events, event)
	return c.fail
}

func TestEmitPersistsAndNotifies(t *testing.T) {
	st := &stubStore{}
	notifier := &captureNotifier{}
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	bus := events.Bus{
		Store:     st,
		Notifiers: []events.Notifier{notifier},
		Now:       func() time.Time { return now },
	}

	ev, err := bus.Emit(context.Background(), events.TopicTransactionCompleted, "TRX-1", map[string]any{"total": 114885})
	require.NoError(t, err)
	require.Len(t, st.inserted, 1)
	require.Len(t, notifier.events, 1)
	require.Equal(t, ev.ID, notifier.events[0].ID)
	require.Equal(t, now, ev.OccurredAt)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(ev.Payload, &decoded))
	require.EqualValues(t, 114885, decoded["total"])
}

func TestEmitValidatesInputs(t *testing.T) {
	bus := events.Bus{Store: &stubStore{}}

	_, err := bus.Emit(context.Background(), "", "TRX-1", nil)
	require.Error(t, err)

	_, err = bus.Emit(context.Background(), events.TopicLowStock, "", nil)
	require.Error(t, err)
}

func TestEmitReportsNotifierFailureWithoutDroppingEvent(t *testing.T) {
	st := &stubStore{}
	failing := &captureNotifier{fail: errors.New("boom")}
	ok := &captureNotifier{}
	bus := events.Bus{Store: st, Notifiers: []events.Notifier{failing, ok}}

	_, err := bus.Emit(context.Background(), events.TopicLowStock, "p1", []byte(`{"stock":3}`))
	require.Error(t, err)
	require.Len(t, st.inserted, 1)
	require.Len(t, ok.events, 1)
}
