package booking_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freelancer-booking-api/internal/booking"
	"freelancer-booking-api/internal/model"
	"freelancer-booking-api/internal/scheduler"
	"freelancer-booking-api/internal/store"
	"freelancer-booking-api/internal/store/sqlite"
)

var testNow = time.Date(2026, time.April, 6, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) store.Store {
	t.Helper()
	st, err := sqlite.New(filepath.Join(t.TempDir(), "booking.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st
}

func newService(t *testing.T, st store.Store, keepClient bool) *booking.Service {
	t.Helper()
	finder := scheduler.NewFinder(st)
	return booking.NewService(st, finder, booking.Options{
		KeepClientOnNoSlot: keepClient,
		Now:                func() time.Time { return testNow },
	})
}

func TestBookEmptyCalendar(t *testing.T) {
	st := newStore(t)
	svc := newService(t, st, true)

	start := testNow.Add(24 * time.Hour)
	client, event, err := svc.Book(context.Background(), booking.Request{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		RequestedStart:  start,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	require.NotZero(t, client.ID)
	assert.Equal(t, "Booking: Ada Lovelace", event.Title)
	assert.Equal(t, client.ID, event.ClientID)
	assert.True(t, event.Start.Equal(start))
	assert.True(t, event.End.Equal(start.Add(time.Hour)))
}

func TestBookSkipsOccupiedSlot(t *testing.T) {
	st := newStore(t)
	svc := newService(t, st, true)

	start := testNow.Add(24 * time.Hour)
	require.NoError(t, st.CreateEvent(context.Background(), &model.Event{
		ClientID: 1, Title: "busy", Start: start, End: start.Add(time.Hour),
	}))

	_, event, err := svc.Book(context.Background(), booking.Request{
		Name: "Grace", Email: "grace@example.com", RequestedStart: start,
	})
	require.NoError(t, err)
	assert.True(t, event.Start.Equal(start.Add(15*time.Minute)))
	assert.True(t, event.End.Equal(start.Add(75*time.Minute)))
}

func TestBookDefaults(t *testing.T) {
	st := newStore(t)
	svc := newService(t, st, true)

	// no requested start, no duration: now+1h for 60 minutes
	_, event, err := svc.Book(context.Background(), booking.Request{
		Name: "Default", Email: "default@example.com",
	})
	require.NoError(t, err)
	assert.True(t, event.Start.Equal(testNow.Add(time.Hour)))
	assert.True(t, event.End.Equal(testNow.Add(2*time.Hour)))
}

func TestBookRejectsNegativeDuration(t *testing.T) {
	st := newStore(t)
	svc := newService(t, st, true)

	_, _, err := svc.Book(context.Background(), booking.Request{
		Name: "Bad", Email: "bad@example.com", DurationMinutes: -30,
	})
	require.ErrorIs(t, err, booking.ErrInvalidDuration)

	// rejected before any store mutation
	clients, err := st.ListClients(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func fillWindow(t *testing.T, st store.Store, from time.Time) {
	t.Helper()
	// one wall-to-wall event is enough to block every candidate
	require.NoError(t, st.CreateEvent(context.Background(), &model.Event{
		ClientID: 1,
		Title:    "wall",
		Start:    from.Add(-time.Hour),
		End:      from.Add((scheduler.DefaultSearchWindowDays + 1) * 24 * time.Hour),
	}))
}

func TestBookNoAvailabilityKeepsClient(t *testing.T) {
	st := newStore(t)
	svc := newService(t, st, true)

	start := testNow.Add(24 * time.Hour)
	fillWindow(t, st, start)

	_, _, err := svc.Book(context.Background(), booking.Request{
		Name: "Orphan", Email: "orphan@example.com", RequestedStart: start,
	})
	require.ErrorIs(t, err, booking.ErrNoAvailability)

	// historical behavior: the client row survives the failed booking
	clients, err := st.ListClients(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Orphan", clients[0].Name)
}

func TestBookNoAvailabilityAtomicLeavesNothing(t *testing.T) {
	st := newStore(t)
	svc := newService(t, st, false)

	start := testNow.Add(24 * time.Hour)
	fillWindow(t, st, start)

	_, _, err := svc.Book(context.Background(), booking.Request{
		Name: "Clean", Email: "clean@example.com", RequestedStart: start,
	})
	require.ErrorIs(t, err, booking.ErrNoAvailability)

	clients, err := st.ListClients(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestBookAtomicWritesBoth(t *testing.T) {
	st := newStore(t)
	svc := newService(t, st, false)

	start := testNow.Add(24 * time.Hour)
	client, event, err := svc.Book(context.Background(), booking.Request{
		Name: "Atomic", Email: "atomic@example.com", RequestedStart: start,
	})
	require.NoError(t, err)
	require.NotZero(t, client.ID)
	assert.Equal(t, client.ID, event.ClientID)

	events, err := st.ListEventsBetween(context.Background(), start.Add(-time.Hour), start.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestConcurrentBookingsGetDisjointSlots(t *testing.T) {
	st := newStore(t)
	svc := newService(t, st, true)

	start := testNow.Add(24 * time.Hour)

	const n = 8
	var wg sync.WaitGroup
	events := make(chan *model.Event, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ev, err := svc.Book(context.Background(), booking.Request{
				Name: "Race", Email: "race@example.com", RequestedStart: start,
			})
			if err != nil {
				t.Errorf("book: %v", err)
				return
			}
			events <- ev
		}()
	}
	wg.Wait()
	close(events)

	// bookings are serialized behind the service mutex: every event must
	// be pairwise disjoint
	var booked []*model.Event
	for ev := range events {
		booked = append(booked, ev)
	}
	require.Len(t, booked, n)
	for i := 0; i < len(booked); i++ {
		for j := i + 1; j < len(booked); j++ {
			a, b := booked[i], booked[j]
			assert.False(t, a.Overlaps(b.Start, b.End),
				"events overlap: [%v,%v) and [%v,%v)", a.Start, a.End, b.Start, b.End)
		}
	}
}
