package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tabletap/staff-api/internal/enum"
	"github.com/tabletap/staff-api/internal/middleware"
	"github.com/tabletap/staff-api/internal/report"
	"github.com/tabletap/staff-api/internal/upstream"
)

// ReportClient defines the upstream calls needed by report handlers.
// Satisfied by *upstream.Client; narrow interface for testability.
type ReportClient interface {
	GetSalesReport(ctx context.Context, params upstream.ReportParams) (*upstream.SalesReport, error)
	GetSalesHistory(ctx context.Context, params upstream.ReportParams) ([]upstream.SalesHistoryRow, error)
}

// ReportHandler handles the sales dashboard endpoints.
type ReportHandler struct {
	client   ReportClient
	language string
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(client ReportClient, language string) *ReportHandler {
	return &ReportHandler{client: client, language: language}
}

// RegisterRoutes registers report endpoints on the given Chi router.
// Expected to be mounted behind a manager/owner role check.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/sales", h.Sales)
	r.Get("/reports/history", h.History)
}

// --- Response types ---

type salesReportResponse struct {
	Summary    report.Summary         `json:"summary"`
	Weekly     []upstream.DailySales  `json:"weekly"`
	Categories []report.CategoryShare `json:"categories"`
}

// --- Handlers ---

func (h *ReportHandler) parsePeriod(w http.ResponseWriter, r *http.Request) (report.Period, bool) {
	kind := r.URL.Query().Get("period")
	if kind == "" {
		kind = enum.ReportPeriodToday
	}
	p, err := report.ParsePeriod(kind, r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, report.ErrCustomRangeIncomplete) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return report.Period{}, false
	}
	return p, true
}

// Sales handles GET /reports/sales?period=today|week|month|custom.
func (h *ReportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	period, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	salesReport, err := h.client.GetSalesReport(r.Context(), period.Params(claims.RestaurantID, h.language))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	weekly := salesReport.Weekly
	if weekly == nil {
		weekly = []upstream.DailySales{}
	}

	writeJSON(w, http.StatusOK, salesReportResponse{
		Summary:    report.BuildSummary(salesReport, period),
		Weekly:     weekly,
		Categories: report.CategoryShares(salesReport.Categories),
	})
}

// History handles GET /reports/history?period=week&page=1. Orders are
// grouped into table sessions client-side; pages are fixed at ten sessions.
func (h *ReportHandler) History(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	period, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid page number"})
			return
		}
		page = n
	}

	rows, err := h.client.GetSalesHistory(r.Context(), period.Params(claims.RestaurantID, h.language))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report.Paginate(report.GroupSessions(rows), page))
}
