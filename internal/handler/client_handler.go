package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"freelancer-booking-api/internal/booking"
	"freelancer-booking-api/internal/model"
)

type createClientRequest struct {
	Name                     string     `json:"name"`
	Email                    string     `json:"email"`
	Phone                    string     `json:"phone"`
	Notes                    string     `json:"notes"`
	RequestedStart           *time.Time `json:"requested_start"`
	RequestedDurationMinutes int        `json:"requested_duration_minutes"`
}

// CreateClient runs the booking workflow: persist the client, find the
// first open slot, create the calendar event.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		writeDetail(w, http.StatusBadRequest, "name and email required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeDetail(w, http.StatusBadRequest, "invalid email")
		return
	}

	breq := booking.Request{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Notes:           req.Notes,
		DurationMinutes: req.RequestedDurationMinutes,
	}
	if req.RequestedStart != nil {
		breq.RequestedStart = *req.RequestedStart
	}

	client, _, err := h.booking.Book(r.Context(), breq)
	switch {
	case errors.Is(err, booking.ErrInvalidDuration):
		writeDetail(w, http.StatusBadRequest, "requested_duration_minutes must be positive")
		return
	case errors.Is(err, booking.ErrNoAvailability):
		writeDetail(w, http.StatusBadRequest, "No available slots in search window")
		return
	case err != nil:
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, client)
}

// ListClients returns all clients, newest first. Auth is enforced by the
// middleware on the route.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.store.ListClients(r.Context())
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}
	if clients == nil {
		clients = []model.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}
