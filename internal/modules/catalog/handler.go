package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/materials", func(r chi.Router) {
		r.Get("/", h.listMaterials)                       // GET    /api/v1/materials
		r.Post("/", h.createMaterial)                     // POST   /api/v1/materials
		r.Get("/{brand}/{type}/{color}", h.getMaterial)   // GET    /api/v1/materials/{brand}/{type}/{color}
		r.Delete("/{brand}/{type}/{color}", h.removeMaterial)
	})
}

func (h *Handler) listMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := h.service.ListMaterials(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, materials)
}

func (h *Handler) createMaterial(w http.ResponseWriter, r *http.Request) {
	var req CreateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := h.service.CreateMaterial(r.Context(), req)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, m)
}

func (h *Handler) getMaterial(w http.ResponseWriter, r *http.Request) {
	key := keyFromURL(r)
	m, err := h.service.GetMaterial(r.Context(), key)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, m)
}

func (h *Handler) removeMaterial(w http.ResponseWriter, r *http.Request) {
	key := keyFromURL(r)
	if err := h.service.RemoveMaterial(r.Context(), key); err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "material removed"})
}

func keyFromURL(r *http.Request) Key {
	return Key{
		Brand: chi.URLParam(r, "brand"),
		Type:  chi.URLParam(r, "type"),
		Color: chi.URLParam(r, "color"),
	}
}

func statusFor(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
