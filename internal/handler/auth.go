package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tabletap/staff-api/internal/auth"
	"github.com/tabletap/staff-api/internal/middleware"
	"github.com/tabletap/staff-api/internal/upstream"
)

// UpstreamAuth defines the upstream calls needed by auth handlers.
// Satisfied by *upstream.Client; narrow interface for testability.
type UpstreamAuth interface {
	Login(ctx context.Context, username, password string) (*upstream.StaffAccount, error)
}

// SessionRegistry tracks which staff sessions this instance has issued
// tokens for. Sessions exist only in memory; a restart logs everyone out.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]upstream.StaffAccount
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[uuid.UUID]upstream.StaffAccount)}
}

func (r *SessionRegistry) Put(id uuid.UUID, staff upstream.StaffAccount) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = staff
}

func (r *SessionRegistry) Get(id uuid.UUID) (upstream.StaffAccount, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	staff, ok := r.sessions[id]
	return staff, ok
}

func (r *SessionRegistry) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// AuthHandler handles staff authentication endpoints.
type AuthHandler struct {
	client    UpstreamAuth
	sessions  *SessionRegistry
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(client UpstreamAuth, sessions *SessionRegistry, jwtSecret string) *AuthHandler {
	return &AuthHandler{client: client, sessions: sessions, jwtSecret: jwtSecret}
}

// RegisterRoutes registers the public auth endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
}

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	Staff        staffResponse `json:"staff"`
}

type staffResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	RestaurantID string `json:"restaurant_id"`
}

// --- Handlers ---

// Login authenticates against the core API and issues a local token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}

	staff, err := h.client.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// The core API rejects bad credentials either with a 401 or with a
		// success:false envelope; both are the staff member's fault, not an
		// outage.
		var apiErr *upstream.APIError
		if errors.Is(err, upstream.ErrUnauthorized) || errors.As(err, &apiErr) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "core API unavailable"})
		return
	}

	sessionID := uuid.New()
	h.sessions.Put(sessionID, *staff)
	h.respondWithTokens(w, sessionID, *staff)
}

// Refresh exchanges a valid refresh token for a fresh pair. The session must
// still be registered; logging out invalidates outstanding refresh tokens.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "refresh_token is required"})
		return
	}

	staffID, sessionID, err := auth.ValidateRefreshToken(h.jwtSecret, req.RefreshToken)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
		return
	}

	staff, ok := h.sessions.Get(sessionID)
	if !ok || staff.ID != staffID {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session no longer active"})
		return
	}

	h.respondWithTokens(w, sessionID, staff)
}

// Logout drops this staff member's session so their refresh token stops
// working. The upstream session is shared by every staff member and stays
// up. Registered on the authenticated router.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	h.sessions.Delete(claims.SessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, sessionID uuid.UUID, staff upstream.StaffAccount) {
	accessToken, err := auth.GenerateToken(h.jwtSecret, staff.ID, staff.RestaurantID, staff.Role, sessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	refreshToken, err := auth.GenerateRefreshToken(h.jwtSecret, staff.ID, sessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Staff: staffResponse{
			ID:           staff.ID,
			Name:         staff.Name,
			Role:         staff.Role,
			RestaurantID: staff.RestaurantID,
		},
	})
}
