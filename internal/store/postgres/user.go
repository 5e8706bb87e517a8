package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"freelancer-booking-api/internal/model"
	"freelancer-booking-api/internal/store"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, is_active)
		 VALUES ($1,$2,$3,$4)
		 RETURNING id, created_at`,
		u.Username, u.Email, u.PasswordHash, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.userBy(ctx, `username = $1`, username)
}

func (s *Store) UserByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userBy(ctx, `id = $1`, id)
}

func (s *Store) userBy(ctx context.Context, where string, arg any) (*model.User, error) {
	u := &model.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, is_active, created_at
		 FROM users WHERE `+where, arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
