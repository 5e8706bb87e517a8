// Package scheduler finds open slots on the calendar: a greedy first-fit
// search that walks forward in fixed 15-minute steps from the requested
// start until a conflict-free interval of the requested duration appears,
// bounded by a search window.
package scheduler

import (
	"context"
	"errors"
	"time"

	"freelancer-booking-api/internal/model"
)

const (
	// Step is the search granularity. It is a design constant, not derived
	// from the requested duration: an unaligned duration still searches on
	// 15-minute boundaries.
	Step = 15 * time.Minute

	// DefaultSearchWindowDays bounds how far past the requested start the
	// search will go.
	DefaultSearchWindowDays = 14
)

var ErrInvalidDuration = errors.New("duration must be positive")

// EventSource answers which stored events overlap a candidate interval.
type EventSource interface {
	OverlappingEvents(ctx context.Context, start, end time.Time) ([]model.Event, error)
}

// Slot is a half-open interval [Start, End) returned as available.
type Slot struct {
	Start time.Time
	End   time.Time
}

type Finder struct {
	events EventSource
	window time.Duration
}

func NewFinder(events EventSource) *Finder {
	return &Finder{
		events: events,
		window: DefaultSearchWindowDays * 24 * time.Hour,
	}
}

// NewFinderWithWindow overrides the search window; days <= 0 falls back to
// the default.
func NewFinderWithWindow(events EventSource, days int) *Finder {
	f := NewFinder(events)
	if days > 0 {
		f.window = time.Duration(days) * 24 * time.Hour
	}
	return f
}

// FindSlot returns the earliest conflict-free interval of the given
// duration, starting at requestedStart and advancing in 15-minute steps.
// found is false when the window is exhausted; that is a legitimate
// negative result, not an error. Only the candidate start is bounded by
// the horizon, so the returned End may lie past it.
func (f *Finder) FindSlot(ctx context.Context, requestedStart time.Time, duration time.Duration) (slot Slot, found bool, err error) {
	if duration <= 0 {
		return Slot{}, false, ErrInvalidDuration
	}

	horizon := requestedStart.Add(f.window)
	for start := requestedStart; start.Before(horizon); start = start.Add(Step) {
		end := start.Add(duration)
		overlaps, err := f.events.OverlappingEvents(ctx, start, end)
		if err != nil {
			return Slot{}, false, err
		}
		if len(overlaps) == 0 {
			return Slot{Start: start, End: end}, true, nil
		}
	}
	return Slot{}, false, nil
}
