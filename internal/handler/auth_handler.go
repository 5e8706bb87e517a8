package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"freelancer-booking-api/internal/auth"
	"freelancer-booking-api/internal/middleware"
	"freelancer-booking-api/internal/model"
	"freelancer-booking-api/internal/store"
)

const refreshTokenTTL = 7 * 24 * time.Hour

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "username, email and password required")
		return
	}
	if len(req.Password) < 8 {
		writeDetail(w, http.StatusBadRequest, "password too short")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeDetail(w, http.StatusBadRequest, "invalid email")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	u := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := h.store.CreateUser(r.Context(), u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeDetail(w, http.StatusBadRequest, "username or email already registered")
			return
		}
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// Token is the password login endpoint. It accepts either form fields or
// a JSON body, and on success returns a bearer token and sets httponly
// access/refresh cookies for browser sessions.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	username, password, ok := credentials(r)
	if !ok || username == "" || password == "" {
		writeDetail(w, http.StatusBadRequest, "username and password required")
		return
	}

	u, err := h.store.UserByUsername(r.Context(), username)
	if err != nil {
		// same answer for unknown user and wrong password
		writeDetail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		writeDetail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !u.IsActive {
		writeDetail(w, http.StatusBadRequest, "inactive user")
		return
	}

	access, err := auth.MakeToken(u.Username, h.secret)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	rawRefresh, refreshHash, err := auth.GenerateRefreshToken()
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}
	if _, err := h.store.CreateRefreshToken(r.Context(), u.ID, refreshHash, time.Now().Add(refreshTokenTTL)); err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	setAuthCookies(w, access, rawRefresh)
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": access,
		"token_type":   "bearer",
	})
}

// Refresh rotates the refresh token from the httponly cookie and issues
// a fresh access token. A revoked token being replayed revokes the whole
// family.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie("refresh_token")
	if err != nil || c.Value == "" {
		writeDetail(w, http.StatusUnauthorized, "missing refresh token")
		return
	}

	rt, err := h.store.RefreshTokenByHash(r.Context(), auth.HashRefreshToken(c.Value))
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if rt.Revoked {
		// replay of a rotated token: assume theft
		if err := h.store.RevokeAllRefreshTokens(r.Context(), rt.UserID); err != nil {
			slog.Error("revoke token family", "user_id", rt.UserID, "error", err)
		}
		writeDetail(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if time.Now().After(rt.ExpiresAt) {
		writeDetail(w, http.StatusUnauthorized, "refresh token expired")
		return
	}

	u, err := h.store.UserByID(r.Context(), rt.UserID)
	if err != nil || !u.IsActive {
		writeDetail(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	newRaw, newHash, err := auth.GenerateRefreshToken()
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}
	newID := uuid.New().String()
	if err := h.store.RotateRefreshToken(r.Context(), rt.ID, newID, rt.UserID, newHash, time.Now().Add(refreshTokenTTL)); err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	access, err := auth.MakeToken(u.Username, h.secret)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	setAuthCookies(w, access, newRaw)
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": access,
		"token_type":   "bearer",
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.UserByUsername(r.Context(), middleware.Username(r.Context()))
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// credentials reads username/password from a form post (the OAuth2
// password flow shape) or a JSON body.
func credentials(r *http.Request) (username, password string, ok bool) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &body); err != nil {
			return "", "", false
		}
		return body.Username, body.Password, true
	}
	if err := r.ParseForm(); err != nil {
		return "", "", false
	}
	return r.PostFormValue("username"), r.PostFormValue("password"), true
}

func setAuthCookies(w http.ResponseWriter, access, refresh string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    access,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refresh,
		HttpOnly: true,
		Path:     "/token",
		SameSite: http.SameSiteLaxMode,
	})
}
