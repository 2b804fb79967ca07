package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tabletap/staff-api/internal/middleware"
	"github.com/tabletap/staff-api/internal/order"
	"github.com/tabletap/staff-api/internal/upstream"
)

// OrderLister defines the upstream call needed by the board handler.
// Satisfied by *upstream.Client; narrow interface for testability.
type OrderLister interface {
	ListOrders(ctx context.Context, restaurantID string) ([]upstream.Order, error)
}

// Transitioner drives order status changes.
// Satisfied by *order.Machine; narrow interface for testability.
type Transitioner interface {
	RequestTransition(ctx context.Context, orderID string, target order.Status) (*order.TransitionResult, error)
}

// OrderHandler handles the order board and status transitions.
type OrderHandler struct {
	client  OrderLister
	machine Transitioner
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(client OrderLister, machine Transitioner) *OrderHandler {
	return &OrderHandler{client: client, machine: machine}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/orders", h.List)
	r.Get("/tables/{table}/orders", h.List)
	r.Patch("/orders/{id}/status", h.UpdateStatus)
}

// --- Request / Response types ---

type orderResponse struct {
	ID           string              `json:"id"`
	TableNumber  int                 `json:"table_number"`
	SessionID    *string             `json:"session_id,omitempty"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	Items        []orderItemResponse `json:"items"`
	TotalAmount  string              `json:"total_amount"`
	NextStatuses []string            `json:"next_statuses"`
}

type orderItemResponse struct {
	Name     string               `json:"name"`
	Quantity int32                `json:"quantity"`
	Price    string               `json:"price"`
	Options  []itemOptionResponse `json:"options,omitempty"`
}

type itemOptionResponse struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int32  `json:"quantity"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type transitionResponse struct {
	Order  orderResponse `json:"order"`
	Notice string        `json:"notice"`
}

// --- Handlers ---

// List handles GET /orders and GET /tables/{table}/orders. Optional filters:
// ?table=4&status=cooking (the path form wins over the query form).
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	rawTable := chi.URLParam(r, "table")
	if rawTable == "" {
		rawTable = r.URL.Query().Get("table")
	}

	var tableFilter int
	if rawTable != "" {
		n, err := strconv.Atoi(rawTable)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table number"})
			return
		}
		tableFilter = n
	}

	var statusFilter order.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		s, err := order.ParseStatus(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		statusFilter = s
	}

	orders, err := h.client.ListOrders(r.Context(), claims.RestaurantID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	resp := orderListResponse{Orders: []orderResponse{}}
	for _, o := range orders {
		status, err := order.ParseStatus(o.Status)
		if err != nil {
			// Skip rows in states this surface does not know about.
			continue
		}
		if tableFilter != 0 && o.TableID != tableFilter {
			continue
		}
		if statusFilter != "" && status != statusFilter {
			continue
		}
		resp.Orders = append(resp.Orders, toOrderResponse(o, status))
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order ID is required"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := h.machine.RequestTransition(r.Context(), orderID, target)
	if err != nil {
		var transitionErr *order.TransitionError
		switch {
		case errors.Is(err, order.ErrTransitionInFlight):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.As(err, &transitionErr):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			writeUpstreamError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, transitionResponse{
		Order:  toOrderResponse(result.Order, target),
		Notice: result.Notice,
	})
}

func toOrderResponse(o upstream.Order, status order.Status) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, item := range o.Items {
		opts := make([]itemOptionResponse, len(item.Options))
		for j, opt := range item.Options {
			opts[j] = itemOptionResponse{
				Name:     opt.Name,
				Price:    opt.Price.StringFixed(0),
				Quantity: opt.Quantity,
			}
		}
		items[i] = orderItemResponse{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price.StringFixed(0),
			Options:  opts,
		}
	}

	next := order.NextStatuses(status)
	nextStrs := make([]string, len(next))
	for i, s := range next {
		nextStrs[i] = string(s)
	}

	return orderResponse{
		ID:           o.ID,
		TableNumber:  o.TableID,
		SessionID:    o.SessionID,
		Status:       string(status),
		CreatedAt:    o.CreatedAt,
		Items:        items,
		TotalAmount:  o.TotalAmount.StringFixed(0),
		NextStatuses: nextStrs,
	}
}
