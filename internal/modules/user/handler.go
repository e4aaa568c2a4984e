package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes account HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", h.register)                       // POST /api/v1/users/register
		r.Get("/", h.list)                                    // GET  /api/v1/users
		r.Get("/{username}", h.get)                           // GET  /api/v1/users/{username}
		r.Delete("/{username}", h.remove)                     // DELETE /api/v1/users/{username}
		r.Post("/{username}/password", h.changePassword)      // POST /api/v1/users/{username}/password
		r.Post("/{username}/reset-token", h.issueResetToken)  // POST /api/v1/users/{username}/reset-token
		r.Post("/reset-password", h.resetPassword)            // POST /api/v1/users/reset-password
		r.Post("/password-strength", h.passwordStrength)      // POST /api/v1/users/password-strength
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a, err := h.service.Register(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, a)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, accounts)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, a)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), chi.URLParam(r, "username")); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "account removed"})
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.ChangePassword(r.Context(), chi.URLParam(r, "username"), req); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "password changed"})
}

func (h *Handler) issueResetToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.IssueResetToken(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "password reset"})
}

func (h *Handler) passwordStrength(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	score := PasswordStrength(req.Password)
	respond(w, http.StatusOK, map[string]interface{}{
		"score":    score,
		"label":    StrengthLabelFor(score),
		"problems": CheckPassword(req.Password),
	})
}

// respondErr maps domain errors onto HTTP statuses: validation failures carry
// their full message list, not-found conditions read as 404.
func respondErr(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		respond(w, http.StatusBadRequest, map[string]interface{}{"errors": verr.Problems})
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrExists):
		respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
