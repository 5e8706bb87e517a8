package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"freelancer-booking-api/internal/store"
)

func (s *Store) CreateRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at) VALUES (?,?,?,?,?)`,
		id, userID, tokenHash, toNanos(expiresAt), toNanos(time.Now().UTC()),
	)
	return id, err
}

func (s *Store) RefreshTokenByHash(ctx context.Context, tokenHash string) (*store.RefreshToken, error) {
	rt := &store.RefreshToken{}
	var expires, created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, revoked, replaced_by, created_at
		 FROM refresh_tokens WHERE token_hash = ?`, tokenHash,
	).Scan(&rt.ID, &rt.UserID, &rt.TokenHash, &expires, &rt.Revoked, &rt.ReplacedBy, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rt.ExpiresAt, rt.CreatedAt = fromNanos(expires), fromNanos(created)
	return rt, nil
}

func (s *Store) RotateRefreshToken(ctx context.Context, oldID, newID string, userID int64, newHash string, newExpiry time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1, replaced_by = ? WHERE id = ?`,
		newID, oldID,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at) VALUES (?,?,?,?,?)`,
		newID, userID, newHash, toNanos(newExpiry), toNanos(time.Now().UTC()),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) RevokeAllRefreshTokens(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1 WHERE user_id = ? AND revoked = 0`,
		userID,
	)
	return err
}
