package store

import (
	"context"
	"fmt"
	"time"
)

// DomainEvent is a persisted record of something that happened on the
// terminal, kept for audit and replay.
type DomainEvent struct {
	ID          string
	Topic       string
	AggregateID string
	Payload     []byte
	OccurredAt  time.Time
}

// InsertDomainEvent persists an emitted event.
func (s *Store) InsertDomainEvent(ctx context.Context, ev DomainEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO domain_events (id, topic, aggregate_id, payload, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		ev.ID, ev.Topic, ev.AggregateID, string(ev.Payload), encodeTime(ev.OccurredAt))
	if err != nil {
		return fmt.Errorf("insert domain event: %w", err)
	}
	return nil
}

// ListDomainEvents returns events for a topic, most recent first.
func (s *Store) ListDomainEvents(ctx context.Context, topic string, limit int) ([]DomainEvent, error) {
	query := `SELECT id, topic, aggregate_id, payload, occurred_at FROM domain_events`
	var args []any
	if topic != "" {
		query += ` WHERE topic = ?`
		args = append(args, topic)
	}
	query += ` ORDER BY occurred_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list domain events: %w", err)
	}
	defer rows.Close()

	var out []DomainEvent
	for rows.Next() {
		var ev DomainEvent
		var payload, occurred string
		if err := rows.Scan(&ev.ID, &ev.Topic, &ev.AggregateID, &payload, &occurred); err != nil {
			return nil, fmt.Errorf("scan domain event: %w", err)
		}
		ev.Payload = []byte(payload)
		ev.OccurredAt = decodeTime(occurred)
		out = append(out, ev)
	}
	return out, rows.Err()
}
