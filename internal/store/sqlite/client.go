package sqlite

import (
	"context"
	"time"

	"freelancer-booking-api/internal/model"
	"freelancer-booking-api/internal/store"
)

func (s *Store) CreateClient(ctx context.Context, c *model.Client) error {
	c.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO clients (name, email, phone, notes, created_at) VALUES (?,?,?,?,?)`,
		c.Name, c.Email, c.Phone, c.Notes, toNanos(c.CreatedAt),
	)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

func (s *Store) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := s.db.QueryContext(ctx,
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
		var created int64
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes, &created); err != nil {
			return nil, err
		}
		c.CreatedAt = fromNanos(created)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateClientWithEvent(ctx context.Context, c *model.Client, e *model.Event) error {
	if !e.Start.Before(e.End) {
		return store.ErrInvalidInterval
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	c.CreatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO clients (name, email, phone, notes, created_at) VALUES (?,?,?,?,?)`,
		c.Name, c.Email, c.Phone, c.Notes, toNanos(c.CreatedAt),
	)
	if err != nil {
		return err
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	e.ClientID = c.ID
	e.CreatedAt = time.Now().UTC()
	res, err = tx.ExecContext(ctx,
		`INSERT INTO events (client_id, title, start_time, end_time, all_day, created_at)
		 VALUES (?,?,?,?,?,?)`,
		e.ClientID, e.Title, toNanos(e.Start), toNanos(e.End), e.AllDay, toNanos(e.CreatedAt),
	)
	if err != nil {
		return err
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	return tx.Commit()
}
