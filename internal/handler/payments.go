package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tabletap/staff-api/internal/payqr"
	"github.com/tabletap/staff-api/internal/upstream"
)

// QRGenerator builds and downloads transfer QR codes.
// Satisfied by *payqr.Generator; narrow interface for testability.
type QRGenerator interface {
	Generate(ctx context.Context, req payqr.GenerateRequest) (*upstream.QRCode, error)
	Download(ctx context.Context, qr *upstream.QRCode) ([]byte, string, error)
}

// PaymentHandler handles transfer QR endpoints.
type PaymentHandler struct {
	generator QRGenerator
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(generator QRGenerator) *PaymentHandler {
	return &PaymentHandler{generator: generator}
}

// RegisterRoutes registers payment endpoints on the given Chi router.
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/payments/qr", h.GenerateQR)
	r.Get("/payments/qr/image", h.DownloadQR)
}

// --- Request / Response types ---

type generateQRRequest struct {
	BankName      string `json:"bank_name"`
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	// Amount is raw JSON: null, numbers and strings are all accepted and
	// sanitized before the upstream call.
	Amount      json.RawMessage `json:"amount"`
	TableNumber int             `json:"table_number"`
}

type qrResponse struct {
	Source string `json:"source"`
	URL    string `json:"url"`
}

// --- Handlers ---

// GenerateQR handles POST /payments/qr.
func (h *PaymentHandler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	var req generateQRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.TableNumber < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table number"})
		return
	}

	qr, err := h.generator.Generate(r.Context(), payqr.GenerateRequest{
		BankName:      req.BankName,
		AccountHolder: req.AccountHolder,
		AccountNumber: req.AccountNumber,
		Amount:        req.Amount,
		TableNumber:   req.TableNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, payqr.ErrMissingAccountNumber),
			errors.Is(err, payqr.ErrMissingBankName):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		default:
			writeUpstreamError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, qrResponse{Source: string(qr.Source), URL: qr.URL})
}

// DownloadQR handles GET /payments/qr/image?url=: it resolves a previously
// generated QR into raw image bytes for printing or saving. The source is
// inferred from the URL prefix.
func (h *PaymentHandler) DownloadQR(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")

	var source upstream.QRSource
	switch {
	case strings.HasPrefix(target, "data:"):
		source = upstream.QRSourceDataURI
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		source = upstream.QRSourceURL
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid QR image URL"})
		return
	}

	data, contentType, err := h.generator.Download(r.Context(), &upstream.QRCode{Source: source, URL: target})
	if err != nil {
		if errors.Is(err, payqr.ErrDisallowedImageHost) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "QR image host is not allowed"})
			return
		}
		writeUpstreamError(w, err)
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
