package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes session HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", h.login)        // POST /api/v1/auth/login
		r.Post("/logout", h.logout)      // POST /api/v1/auth/logout
		r.Get("/session", h.session)     // GET  /api/v1/auth/session
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result := h.service.Login(r.Context(), req.Username, req.Password)
	if !result.Success {
		respond(w, http.StatusUnauthorized, result)
		return
	}
	respond(w, http.StatusOK, result)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context(), bearerToken(r))
	respond(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	a, ok := h.service.ValidateSession(r.Context(), bearerToken(r))
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired session"})
		return
	}
	respond(w, http.StatusOK, a)
}

// bearerToken pulls the session token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
