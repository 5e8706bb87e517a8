package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freelancer-booking-api/internal/model"
	"freelancer-booking-api/internal/store"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st
}

var base = time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)

func seedEvent(t *testing.T, st *Store, start, end time.Time) model.Event {
	t.Helper()
	e := model.Event{ClientID: 1, Title: "seed", Start: start, End: end}
	require.NoError(t, st.CreateEvent(context.Background(), &e))
	return e
}

func TestCreateEventAssignsIdentity(t *testing.T) {
	st := newStore(t)

	e := seedEvent(t, st, base, base.Add(time.Hour))
	assert.NotZero(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())

	e2 := seedEvent(t, st, base.Add(2*time.Hour), base.Add(3*time.Hour))
	assert.Greater(t, e2.ID, e.ID)
}

func TestCreateEventRejectsInvertedInterval(t *testing.T) {
	st := newStore(t)

	err := st.CreateEvent(context.Background(), &model.Event{
		ClientID: 1, Title: "bad", Start: base, End: base,
	})
	assert.ErrorIs(t, err, store.ErrInvalidInterval)

	err = st.CreateEvent(context.Background(), &model.Event{
		ClientID: 1, Title: "bad", Start: base, End: base.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, store.ErrInvalidInterval)
}

func TestOverlappingEvents(t *testing.T) {
	st := newStore(t)
	seedEvent(t, st, base, base.Add(time.Hour))

	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"exact", base, base.Add(time.Hour), 1},
		{"partial left", base.Add(-30 * time.Minute), base.Add(30 * time.Minute), 1},
		{"partial right", base.Add(30 * time.Minute), base.Add(90 * time.Minute), 1},
		{"containing", base.Add(-time.Hour), base.Add(2 * time.Hour), 1},
		{"contained", base.Add(15 * time.Minute), base.Add(30 * time.Minute), 1},
		{"adjacent before", base.Add(-time.Hour), base, 0},
		{"adjacent after", base.Add(time.Hour), base.Add(2 * time.Hour), 0},
		{"disjoint", base.Add(5 * time.Hour), base.Add(6 * time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.OverlappingEvents(context.Background(), tt.start, tt.end)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestOverlapSymmetric(t *testing.T) {
	st := newStore(t)
	a := struct{ start, end time.Time }{base, base.Add(time.Hour)}
	b := struct{ start, end time.Time }{base.Add(30 * time.Minute), base.Add(90 * time.Minute)}

	// event A present, query with B
	seedEvent(t, st, a.start, a.end)
	gotAB, err := st.OverlappingEvents(context.Background(), b.start, b.end)
	require.NoError(t, err)

	// event B present, query with A
	st2 := newStore(t)
	seedEvent(t, st2, b.start, b.end)
	gotBA, err := st2.OverlappingEvents(context.Background(), a.start, a.end)
	require.NoError(t, err)

	assert.Equal(t, len(gotAB) > 0, len(gotBA) > 0, "overlap relation must be symmetric")
}

func TestOverlappingIdempotent(t *testing.T) {
	st := newStore(t)
	seedEvent(t, st, base, base.Add(time.Hour))
	seedEvent(t, st, base.Add(30*time.Minute), base.Add(2*time.Hour))

	first, err := st.OverlappingEvents(context.Background(), base, base.Add(3*time.Hour))
	require.NoError(t, err)
	second, err := st.OverlappingEvents(context.Background(), base, base.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListEventsBetweenOrdered(t *testing.T) {
	st := newStore(t)
	// insert out of order
	seedEvent(t, st, base.Add(2*time.Hour), base.Add(3*time.Hour))
	seedEvent(t, st, base, base.Add(time.Hour))

	got, err := st.ListEventsBetween(context.Background(), base.Add(-time.Hour), base.Add(5*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Start.Before(got[1].Start))
}

func TestListClientsNewestFirst(t *testing.T) {
	st := newStore(t)
	for _, name := range []string{"alpha", "beta", "gamma"} {
		require.NoError(t, st.CreateClient(context.Background(), &model.Client{
			Name: name, Email: name + "@test.com",
		}))
	}

	got, err := st.ListClients(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "gamma", got[0].Name)
	assert.Equal(t, "alpha", got[2].Name)
}

func TestCreateClientWithEvent(t *testing.T) {
	st := newStore(t)

	c := model.Client{Name: "Atomic", Email: "atomic@test.com"}
	e := model.Event{Title: "Booking: Atomic", Start: base, End: base.Add(time.Hour)}
	require.NoError(t, st.CreateClientWithEvent(context.Background(), &c, &e))
	assert.NotZero(t, c.ID)
	assert.Equal(t, c.ID, e.ClientID)

	events, err := st.ListEventsBetween(context.Background(), base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestCreateClientWithEventRejectsInvalidInterval(t *testing.T) {
	st := newStore(t)

	c := model.Client{Name: "Bad", Email: "bad@test.com"}
	e := model.Event{Title: "bad", Start: base, End: base}
	require.ErrorIs(t, st.CreateClientWithEvent(context.Background(), &c, &e), store.ErrInvalidInterval)

	clients, err := st.ListClients(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestCreateUserDuplicate(t *testing.T) {
	st := newStore(t)

	u := model.User{Username: "freelancer", Email: "f@test.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, st.CreateUser(context.Background(), &u))

	dupUsername := model.User{Username: "freelancer", Email: "other@test.com", PasswordHash: "x"}
	assert.ErrorIs(t, st.CreateUser(context.Background(), &dupUsername), store.ErrDuplicate)

	dupEmail := model.User{Username: "other", Email: "f@test.com", PasswordHash: "x"}
	assert.ErrorIs(t, st.CreateUser(context.Background(), &dupEmail), store.ErrDuplicate)
}

func TestUserLookups(t *testing.T) {
	st := newStore(t)

	_, err := st.UserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)

	u := model.User{Username: "real", Email: "real@test.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, st.CreateUser(context.Background(), &u))

	byName, err := st.UserByUsername(context.Background(), "real")
	require.NoError(t, err)
	byID, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, byName.ID, byID.ID)
	assert.True(t, byID.IsActive)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	u := model.User{Username: "tok", Email: "tok@test.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, st.CreateUser(ctx, &u))

	expiry := time.Now().Add(time.Hour)
	id, err := st.CreateRefreshToken(ctx, u.ID, "hash-1", expiry)
	require.NoError(t, err)

	rt, err := st.RefreshTokenByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, id, rt.ID)
	assert.False(t, rt.Revoked)

	require.NoError(t, st.RotateRefreshToken(ctx, id, "new-id", u.ID, "hash-2", expiry))

	old, err := st.RefreshTokenByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.True(t, old.Revoked)
	require.NotNil(t, old.ReplacedBy)
	assert.Equal(t, "new-id", *old.ReplacedBy)

	require.NoError(t, st.RevokeAllRefreshTokens(ctx, u.ID))
	rotated, err := st.RefreshTokenByHash(ctx, "hash-2")
	require.NoError(t, err)
	assert.True(t, rotated.Revoked)
}
