// Package booking orchestrates the booking workflow: persist the client,
// find an open slot, write the calendar event.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"freelancer-booking-api/internal/metrics"
	"freelancer-booking-api/internal/model"
	"freelancer-booking-api/internal/scheduler"
	"freelancer-booking-api/internal/store"
)

const (
	// DefaultDuration applies when the caller does not ask for one.
	DefaultDuration = 60 * time.Minute
	// DefaultLeadTime is how far from now the search starts when no
	// requested start is given.
	DefaultLeadTime = time.Hour
)

var (
	// ErrNoAvailability means the slot search exhausted its window.
	// User-visible, not a system fault.
	ErrNoAvailability = errors.New("no available slots in search window")

	ErrInvalidDuration = scheduler.ErrInvalidDuration
)

type Request struct {
	Name  string
	Email string
	Phone string
	Notes string

	// RequestedStart is used verbatim when set, past instants included.
	RequestedStart time.Time
	// DurationMinutes falls back to DefaultDuration when zero. Negative
	// values are rejected.
	DurationMinutes int
}

// Options control the workflow behaviors that the original left ambiguous.
type Options struct {
	// KeepClientOnNoSlot preserves the historical two-phase behavior:
	// the client row is written before the slot search, and a failed
	// search leaves it behind. When false the slot is resolved first and
	// client + event are committed in one transaction.
	KeepClientOnNoSlot bool

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	store  store.Store
	finder *scheduler.Finder
	opts   Options

	// One calendar, one booking at a time. Serializing here closes the
	// check-then-act race between the slot search and the event insert.
	mu sync.Mutex
}

func NewService(st store.Store, finder *scheduler.Finder, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: st, finder: finder, opts: opts}
}

// Book creates the client and schedules their appointment. On
// ErrNoAvailability the client row survives or not depending on
// Options.KeepClientOnNoSlot.
func (s *Service) Book(ctx context.Context, req Request) (*model.Client, *model.Event, error) {
	duration := DefaultDuration
	if req.DurationMinutes != 0 {
		duration = time.Duration(req.DurationMinutes) * time.Minute
	}
	if duration <= 0 {
		return nil, nil, ErrInvalidDuration
	}

	start := req.RequestedStart
	if start.IsZero() {
		start = s.opts.Now().Add(DefaultLeadTime)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	client := &model.Client{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	}

	if s.opts.KeepClientOnNoSlot {
		return s.bookTwoPhase(ctx, client, start, duration)
	}
	return s.bookAtomic(ctx, client, start, duration)
}

// bookTwoPhase reproduces the original ordering: client first, then the
// slot search. No rollback when the search comes up empty.
func (s *Service) bookTwoPhase(ctx context.Context, client *model.Client, start time.Time, duration time.Duration) (*model.Client, *model.Event, error) {
	if err := s.store.CreateClient(ctx, client); err != nil {
		return nil, nil, fmt.Errorf("create client: %w", err)
	}

	slot, found, err := s.finder.FindSlot(ctx, start, duration)
	if err != nil {
		return nil, nil, fmt.Errorf("find slot: %w", err)
	}
	if !found {
		metrics.BookingsNoSlot.Inc()
		slog.Warn("booking failed, window exhausted",
			"client_id", client.ID, "requested_start", start, "duration", duration)
		return nil, nil, ErrNoAvailability
	}

	metrics.SlotSearchSteps.Observe(float64(slot.Start.Sub(start) / scheduler.Step))
	event := s.eventFor(client, slot)
	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, nil, fmt.Errorf("create event: %w", err)
	}

	s.logBooked(client, event)
	return client, event, nil
}

// bookAtomic resolves the slot before touching the store, then commits
// client and event together, so a failed search leaves nothing behind.
func (s *Service) bookAtomic(ctx context.Context, client *model.Client, start time.Time, duration time.Duration) (*model.Client, *model.Event, error) {
	slot, found, err := s.finder.FindSlot(ctx, start, duration)
	if err != nil {
		return nil, nil, fmt.Errorf("find slot: %w", err)
	}
	if !found {
		metrics.BookingsNoSlot.Inc()
		slog.Warn("booking failed, window exhausted",
			"requested_start", start, "duration", duration)
		return nil, nil, ErrNoAvailability
	}

	metrics.SlotSearchSteps.Observe(float64(slot.Start.Sub(start) / scheduler.Step))
	event := s.eventFor(client, slot)
	if err := s.store.CreateClientWithEvent(ctx, client, event); err != nil {
		return nil, nil, fmt.Errorf("create client with event: %w", err)
	}

	s.logBooked(client, event)
	return client, event, nil
}

func (s *Service) eventFor(client *model.Client, slot scheduler.Slot) *model.Event {
	return &model.Event{
		ClientID: client.ID,
		Title:    fmt.Sprintf("Booking: %s", client.Name),
		Start:    slot.Start,
		End:      slot.End,
	}
}

func (s *Service) logBooked(client *model.Client, event *model.Event) {
	metrics.BookingsTotal.Inc()
	slog.Info("booked",
		"client_id", client.ID, "event_id", event.ID,
		"start", event.Start, "end", event.End)
}
