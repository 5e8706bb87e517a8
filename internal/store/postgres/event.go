package postgres

import (
	"context"
	"time"

	"freelancer-booking-api/internal/model"
	"freelancer-booking-api/internal/store"
)

func (s *Store) CreateEvent(ctx context.Context, e *model.Event) error {
	if !e.Start.Before(e.End) {
		return store.ErrInvalidInterval
	}
	return s.pool.QueryRow(ctx,
		`INSERT INTO events (client_id, title, start_time, end_time, all_day)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING id, created_at`,
		e.ClientID, e.Title, e.Start, e.End, e.AllDay,
	).Scan(&e.ID, &e.CreatedAt)
}

// OverlappingEvents returns every event whose [start_time, end_time)
// intersects [start, end).
func (s *Store) OverlappingEvents(ctx context.Context, start, end time.Time) ([]model.Event, error) {
	return s.queryEvents(ctx,
		`SELECT id, client_id, title, start_time, end_time, all_day, created_at
		 FROM events
		 WHERE start_time < $2 AND end_time > $1`, start, end)
}

func (s *Store) ListEventsBetween(ctx context.Context, start, end time.Time) ([]model.Event, error) {
	return s.queryEvents(ctx,
		`SELECT id, client_id, title, start_time, end_time, all_day, created_at
		 FROM events
		 WHERE start_time < $2 AND end_time > $1
		 ORDER BY start_time`, start, end)
}

func (s *Store) queryEvents(ctx context.Context, q string, args ...any) ([]model.Event, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.ClientID, &e.Title, &e.Start, &e.End, &e.AllDay, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
