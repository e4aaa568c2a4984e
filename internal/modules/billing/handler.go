package billing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/printmill/printmill-backend/internal/modules/order"
)

// Handler exposes invoice HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/invoices", func(r chi.Router) {
		r.Post("/", h.generate)                       // POST /api/v1/invoices
		r.Get("/{id}", h.get)                         // GET  /api/v1/invoices/{id}
		r.Get("/number/{number}", h.getByNumber)      // GET  /api/v1/invoices/number/{number}
		r.Get("/order/{order_id}", h.listByOrder)     // GET  /api/v1/invoices/order/{order_id}
	})
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	inv, err := h.service.Generate(r.Context(), req)
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, order.ErrNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, inv)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid invoice id"})
		return
	}
	inv, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, inv)
}

func (h *Handler) getByNumber(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.GetByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, inv)
}

func (h *Handler) listByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}
	invoices, err := h.service.ListByOrder(r.Context(), orderID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, invoices)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
