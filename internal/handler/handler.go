// Package handler is the HTTP shell: it decodes JSON requests, calls the
// booking workflow and the store, and serializes results. Errors follow
// the {"detail": "..."} shape the frontend expects.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"freelancer-booking-api/internal/booking"
	"freelancer-booking-api/internal/middleware"
	"freelancer-booking-api/internal/store"
)

type Handler struct {
	store   store.Store
	booking *booking.Service
	secret  string
}

func New(st store.Store, svc *booking.Service, secret string) *Handler {
	return &Handler{store: st, booking: svc, secret: secret}
}

// Routes wires every endpoint. Credential endpoints go through the rate
// limiter; reads of private data go through the auth middleware.
func (h *Handler) Routes(rl *middleware.RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /clients/{$}", h.CreateClient)
	mux.HandleFunc("GET /events/public", h.ListEvents)
	mux.Handle("GET /events/{$}", middleware.RequireAuth(h.secret, http.HandlerFunc(h.ListEvents)))
	mux.Handle("GET /clients/{$}", middleware.RequireAuth(h.secret, http.HandlerFunc(h.ListClients)))

	mux.Handle("POST /register", middleware.RateLimit(rl, http.HandlerFunc(h.Register)))
	mux.Handle("POST /token", middleware.RateLimit(rl, http.HandlerFunc(h.Token)))
	mux.HandleFunc("POST /token/refresh", h.Refresh)
	mux.Handle("GET /me", middleware.RequireAuth(h.secret, http.HandlerFunc(h.Me)))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
