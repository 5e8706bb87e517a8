// Package store defines the persistence contract shared by the Postgres and
// SQLite backends. The service layer only sees this interface, so backends
// can be swapped without touching booking or handler code.
package store

import (
	"context"
	"errors"
	"time"

	"freelancer-booking-api/internal/model"
)

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate means a unique constraint (username/email) was violated.
	ErrDuplicate = errors.New("duplicate")
	// ErrInvalidInterval means an event was rejected because start >= end.
	ErrInvalidInterval = errors.New("event start must be before end")
)

type RefreshToken struct {
	ID         string
	UserID     int64
	TokenHash  string
	ExpiresAt  time.Time
	Revoked    bool
	ReplacedBy *string
	CreatedAt  time.Time
}

type Store interface {
	// CreateClient persists a new client, assigning ID and CreatedAt.
	CreateClient(ctx context.Context, c *model.Client) error
	// ListClients returns all clients, newest first.
	ListClients(ctx context.Context) ([]model.Client, error)

	// CreateEvent persists a new event, assigning ID and CreatedAt.
	// Returns ErrInvalidInterval unless event.Start < event.End.
	CreateEvent(ctx context.Context, e *model.Event) error
	// OverlappingEvents returns every event whose interval overlaps
	// [start, end). No ordering guarantee.
	OverlappingEvents(ctx context.Context, start, end time.Time) ([]model.Event, error)
	// ListEventsBetween returns the same set as OverlappingEvents,
	// ordered by start time.
	ListEventsBetween(ctx context.Context, start, end time.Time) ([]model.Event, error)
	// CreateClientWithEvent writes both records in a single transaction.
	// The event's ClientID is filled from the newly assigned client ID.
	CreateClientWithEvent(ctx context.Context, c *model.Client, e *model.Event) error

	// CreateUser persists a new user. Returns ErrDuplicate when the
	// username or email is already registered.
	CreateUser(ctx context.Context, u *model.User) error
	UserByUsername(ctx context.Context, username string) (*model.User, error)
	UserByID(ctx context.Context, id int64) (*model.User, error)

	CreateRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) (string, error)
	RefreshTokenByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	// RotateRefreshToken revokes the old token, inserts the new one and
	// links them, all in one transaction.
	RotateRefreshToken(ctx context.Context, oldID, newID string, userID int64, newHash string, newExpiry time.Time) error
	// RevokeAllRefreshTokens revokes every live token for a user
	// (logout or suspected token theft).
	RevokeAllRefreshTokens(ctx context.Context, userID int64) error

	Close()
}
