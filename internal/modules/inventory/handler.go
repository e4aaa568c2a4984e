package inventory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/printmill/printmill-backend/internal/modules/catalog"
)

// Handler exposes inventory HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Get("/", h.listStock)                                    // GET  /api/v1/inventory
		r.Get("/{brand}/{type}/{color}", h.getStock)               // GET  /api/v1/inventory/{brand}/{type}/{color}
		r.Put("/{brand}/{type}/{color}", h.setStock)               // PUT  /api/v1/inventory/{brand}/{type}/{color}
		r.Post("/{brand}/{type}/{color}/replenish", h.replenish)   // POST /api/v1/inventory/{brand}/{type}/{color}/replenish
		r.Post("/{brand}/{type}/{color}/consume", h.consume)       // POST /api/v1/inventory/{brand}/{type}/{color}/consume
	})
}

type gramsRequest struct {
	Grams int `json:"grams"`
}

func (h *Handler) listStock(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.ListStock(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, levels)
}

func (h *Handler) getStock(w http.ResponseWriter, r *http.Request) {
	key := keyFromURL(r)
	grams, err := h.service.GetStock(r.Context(), key)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, StockLevel{Material: key, Grams: grams})
}

func (h *Handler) setStock(w http.ResponseWriter, r *http.Request) {
	key := keyFromURL(r)
	var req gramsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.SetStock(r.Context(), key, req.Grams); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, StockLevel{Material: key, Grams: req.Grams})
}

func (h *Handler) replenish(w http.ResponseWriter, r *http.Request) {
	key := keyFromURL(r)
	var req gramsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.Replenish(r.Context(), key, req.Grams); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	grams, _ := h.service.GetStock(r.Context(), key)
	respond(w, http.StatusOK, StockLevel{Material: key, Grams: grams})
}

func (h *Handler) consume(w http.ResponseWriter, r *http.Request) {
	key := keyFromURL(r)
	var req gramsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.Consume(r.Context(), key, req.Grams); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, ErrInsufficientStock) {
			code = http.StatusUnprocessableEntity
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	grams, _ := h.service.GetStock(r.Context(), key)
	respond(w, http.StatusOK, StockLevel{Material: key, Grams: grams})
}

func keyFromURL(r *http.Request) catalog.Key {
	return catalog.Key{
		Brand: chi.URLParam(r, "brand"),
		Type:  chi.URLParam(r, "type"),
		Color: chi.URLParam(r, "color"),
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
