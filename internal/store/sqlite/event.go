package sqlite

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
	e.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO events (client_id, title, start_time, end_time, all_day, created_at)
		 VALUES (?,?,?,?,?,?)`,
		e.ClientID, e.Title, toNanos(e.Start), toNanos(e.End), e.AllDay, toNanos(e.CreatedAt),
	)
	if err != nil {
		return err
	}
	e.ID, err = res.LastInsertId()
	return err
}

func (s *Store) OverlappingEvents(ctx context.Context, start, end time.Time) ([]model.Event, error) {
	return s.queryEvents(ctx,
		`SELECT id, client_id, title, start_time, end_time, all_day, created_at
		 FROM events
		 WHERE start_time < ? AND end_time > ?`, toNanos(end), toNanos(start))
}

func (s *Store) ListEventsBetween(ctx context.Context, start, end time.Time) ([]model.Event, error) {
	return s.queryEvents(ctx,
		`SELECT id, client_id, title, start_time, end_time, all_day, created_at
		 FROM events
		 WHERE start_time < ? AND end_time > ?
		 ORDER BY start_time`, toNanos(end), toNanos(start))
}

func (s *Store) queryEvents(ctx context.Context, q string, args ...any) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		var start, end, created int64
		if err := rows.Scan(&e.ID, &e.ClientID, &e.Title, &start, &end, &e.AllDay, &created); err != nil {
			return nil, err
		}
		e.Start, e.End, e.CreatedAt = fromNanos(start), fromNanos(end), fromNanos(created)
		out = append(out, e)
	}
	return out, rows.Err()
}
