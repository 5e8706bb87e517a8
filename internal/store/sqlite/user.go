package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"freelancer-booking-api/internal/model"
	"freelancer-booking-api/internal/store"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	u.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, is_active, created_at) VALUES (?,?,?,?,?)`,
		u.Username, u.Email, u.PasswordHash, u.IsActive, toNanos(u.CreatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.userBy(ctx, `username = ?`, username)
}

func (s *Store) UserByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userBy(ctx, `id = ?`, id)
}

func (s *Store) userBy(ctx context.Context, where string, arg any) (*model.User, error) {
	u := &model.User{}
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, is_active, created_at
		 FROM users WHERE `+where, arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = fromNanos(created)
	return u, nil
}
