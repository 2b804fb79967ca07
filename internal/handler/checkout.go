package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tabletap/staff-api/internal/checkout"
	"github.com/tabletap/staff-api/internal/order"
)

// CheckoutService drives the table checkout workflow.
// Satisfied by *checkout.Service; narrow interface for testability.
type CheckoutService interface {
	Open(ctx context.Context, tableNumber int, sessionID *string) (*checkout.Sheet, error)
	Complete(ctx context.Context, req checkout.CompleteRequest) error
}

// CheckoutHandler handles table checkout endpoints.
type CheckoutHandler struct {
	svc CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// RegisterRoutes registers checkout endpoints on the given Chi router.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tables/{table}/checkout", h.Open)
	r.Post("/tables/{table}/checkout/complete", h.Complete)
}

// --- Request / Response types ---

type checkoutSheetResponse struct {
	TableNumber    int             `json:"table_number"`
	SessionID      *string         `json:"session_id,omitempty"`
	Orders         []orderResponse `json:"orders"`
	TotalAmount    string          `json:"total_amount"`
	EnabledMethods []string        `json:"enabled_methods"`
	SelectedMethod string          `json:"selected_method,omitempty"`
}

type completeCheckoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// --- Handlers ---

// Open handles GET /tables/{table}/checkout?session_id=...
func (h *CheckoutHandler) Open(w http.ResponseWriter, r *http.Request) {
	tableNumber, err := strconv.Atoi(chi.URLParam(r, "table"))
	if err != nil || tableNumber < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table number"})
		return
	}

	var sessionID *string
	if raw := r.URL.Query().Get("session_id"); raw != "" {
		sessionID = &raw
	}

	sheet, err := h.svc.Open(r.Context(), tableNumber, sessionID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	orders := make([]orderResponse, 0, len(sheet.Orders))
	for _, o := range sheet.Orders {
		status, err := order.ParseStatus(o.Status)
		if err != nil {
			continue
		}
		orders = append(orders, toOrderResponse(o, status))
	}

	writeJSON(w, http.StatusOK, checkoutSheetResponse{
		TableNumber:    sheet.TableNumber,
		SessionID:      sheet.SessionID,
		Orders:         orders,
		TotalAmount:    sheet.TotalAmount.StringFixed(0),
		EnabledMethods: sheet.EnabledMethods,
		SelectedMethod: sheet.SelectedMethod,
	})
}

// Complete handles POST /tables/{table}/checkout/complete.
func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	tableNumber, err := strconv.Atoi(chi.URLParam(r, "table"))
	if err != nil || tableNumber < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table number"})
		return
	}

	var req completeCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	err = h.svc.Complete(r.Context(), checkout.CompleteRequest{
		TableNumber:   tableNumber,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNoPaymentMethod),
			errors.Is(err, checkout.ErrInvalidTable):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, checkout.ErrMethodNotEnabled),
			errors.Is(err, checkout.ErrNoEnabledMethods):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		case errors.Is(err, checkout.ErrCheckoutInProgress):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			writeUpstreamError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "checkout completed"})
}
