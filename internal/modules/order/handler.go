package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/printmill/printmill-backend/internal/modules/inventory"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.submit)                        // POST  /api/v1/orders
		r.Post("/quote", h.quote)                    // POST  /api/v1/orders/quote
		r.Get("/", h.list)                           // GET   /api/v1/orders?username=
		r.Get("/{id}", h.get)                        // GET   /api/v1/orders/{id}
		r.Get("/{id}/price", h.price)                // GET   /api/v1/orders/{id}/price
		r.Patch("/{id}/status", h.updateStatus)      // PATCH /api/v1/orders/{id}/status
		r.Patch("/{id}/priority", h.updatePriority)  // PATCH /api/v1/orders/{id}/priority
		r.Get("/queue", h.queueList)                 // GET   /api/v1/orders/queue
		r.Get("/queue/next", h.next)                 // GET   /api/v1/orders/queue/next
		r.Post("/queue/start", h.startNext)          // POST  /api/v1/orders/queue/start
	})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.Submit(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	q, err := h.service.QuoteOrder(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, q)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		orders []*Order
		err    error
	)
	if username := r.URL.Query().Get("username"); username != "" {
		orders, err = h.service.ListByUser(r.Context(), username)
	} else {
		orders, err = h.service.List(r.Context())
	}
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	o, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) price(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	price, currency, err := h.service.PriceOf(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"price": price, "currency": currency})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) updatePriority(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	var req UpdatePriorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.UpdatePriority(r.Context(), id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) queueList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.Queue(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) next(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.NextInQueue(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) startNext(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.StartNext(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return 0, false
	}
	return id, true
}

// respondErr maps domain errors onto HTTP statuses. Validation failures
// carry the complete message list.
func respondErr(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		respond(w, http.StatusBadRequest, map[string]interface{}{"errors": verr.Problems})
		return
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrQueueEmpty):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, inventory.ErrInsufficientStock):
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
