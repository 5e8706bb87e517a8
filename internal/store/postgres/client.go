package postgres

import (
	"context"

	"freelancer-booking-api/internal/model"
	"freelancer-booking-api/internal/store"
)

func (s *Store) CreateClient(ctx context.Context, c *model.Client) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO clients (name, email, phone, notes)
		 VALUES ($1,$2,$3,$4)
		 RETURNING id, created_at`,
		c.Name, c.Email, c.Phone, c.Notes,
	).Scan(&c.ID, &c.CreatedAt)
}

func (s *Store) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, phone, notes, created_at
		 FROM clients
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateClientWithEvent(ctx context.Context, c *model.Client, e *model.Event) error {
	if !e.Start.Before(e.End) {
		return store.ErrInvalidInterval
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO clients (name, email, phone, notes)
		 VALUES ($1,$2,$3,$4)
		 RETURNING id, created_at`,
		c.Name, c.Email, c.Phone, c.Notes,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return err
	}

	e.ClientID = c.ID
	err = tx.QueryRow(ctx,
		`INSERT INTO events (client_id, title, start_time, end_time, all_day)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING id, created_at`,
		e.ClientID, e.Title, e.Start, e.End, e.AllDay,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
