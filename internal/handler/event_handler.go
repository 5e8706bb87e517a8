package handler

import (
	"net/http"
	"time"

	"freelancer-booking-api/internal/model"
)

// ListEvents serves both /events/ and /events/public: a range query over
// [start, end), defaulting to now±30 days.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -30)
	end := now.AddDate(0, 0, 30)

	q := r.URL.Query()
	if raw := q.Get("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "start must be RFC3339")
			return
		}
		start = t
	}
	if raw := q.Get("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "end must be RFC3339")
			return
		}
		end = t
	}

	events, err := h.store.ListEventsBetween(r.Context(), start, end)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}
