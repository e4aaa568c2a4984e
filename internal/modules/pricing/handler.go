package pricing

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes pricing configuration HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/config", func(r chi.Router) {
		r.Get("/", h.getConfig)          // GET   /api/v1/config
		r.Patch("/", h.updateConfig)     // PATCH /api/v1/config
		r.Post("/reset", h.resetConfig)  // POST  /api/v1/config/reset
		r.Post("/save", h.saveConfig)    // POST  /api/v1/config/save
		r.Post("/load", h.loadConfig)    // POST  /api/v1/config/load
	})
}

func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Snapshot())
}

func (h *Handler) updateConfig(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	// Setters are best-effort; the response body is the authoritative state.
	respond(w, http.StatusOK, h.service.Update(req))
}

func (h *Handler) resetConfig(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.ResetToDefaults())
}

func (h *Handler) saveConfig(w http.ResponseWriter, r *http.Request) {
	if !h.service.SaveToFile() {
		respond(w, http.StatusInternalServerError, map[string]string{"error": "failed to save configuration"})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Handler) loadConfig(w http.ResponseWriter, r *http.Request) {
	ok, report := h.service.LoadFromFile()
	if !ok {
		respond(w, http.StatusInternalServerError, map[string]string{"error": "failed to load configuration"})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"status": "loaded",
		"report": report,
		"config": h.service.Snapshot(),
	})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
