package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/tabletap/staff-api/internal/middleware"
	"github.com/tabletap/staff-api/internal/promo"
	"github.com/tabletap/staff-api/internal/upstream"
)

// PromotionLister defines the upstream call needed by promotion handlers.
// Satisfied by *upstream.Client; narrow interface for testability.
type PromotionLister interface {
	ListPromotions(ctx context.Context, restaurantID string) ([]upstream.Promotion, error)
}

// PromotionHandler exposes promotion state and effective menu prices.
type PromotionHandler struct {
	client PromotionLister
	now    func() time.Time
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(client PromotionLister) *PromotionHandler {
	return &PromotionHandler{client: client, now: time.Now}
}

// RegisterRoutes registers promotion endpoints on the given Chi router.
func (h *PromotionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/promotions", h.List)
	r.Post("/promotions/prices", h.Prices)
}

// --- Request / Response types ---

type promotionResponse struct {
	ID              string   `json:"id"`
	DiscountPercent string   `json:"discount_percent"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	MenuItemIDs     []string `json:"menu_item_ids"`
	ActiveNow       bool     `json:"active_now"`
}

type priceRequest struct {
	Items []priceRequestItem `json:"items"`
}

type priceRequestItem struct {
	MenuItemID string          `json:"menu_item_id"`
	Price      decimal.Decimal `json:"price"`
}

type priceResponse struct {
	Items []priceResponseItem `json:"items"`
}

type priceResponseItem struct {
	MenuItemID     string `json:"menu_item_id"`
	OriginalPrice  string `json:"original_price"`
	EffectivePrice string `json:"effective_price"`
	Discounted     bool   `json:"discounted"`
}

// --- Handlers ---

// List handles GET /promotions.
func (h *PromotionHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	promos, err := h.client.ListPromotions(r.Context(), claims.RestaurantID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	now := h.now()
	resp := make([]promotionResponse, len(promos))
	for i, p := range promos {
		resp[i] = promotionResponse{
			ID:              p.ID,
			DiscountPercent: p.DiscountPercent.StringFixed(0),
			StartDate:       p.StartDate.Format("2006-01-02"),
			EndDate:         p.EndDate.Format("2006-01-02"),
			MenuItemIDs:     p.MenuItemIDs,
			ActiveNow:       promo.IsActiveNow(p, now),
		}
	}

	writeJSON(w, http.StatusOK, map[string][]promotionResponse{"promotions": resp})
}

// Prices handles POST /promotions/prices: it resolves the effective price of
// each submitted menu item under the currently active promotions.
func (h *PromotionHandler) Prices(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}

	promos, err := h.client.ListPromotions(r.Context(), claims.RestaurantID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	now := h.now()
	resp := priceResponse{Items: make([]priceResponseItem, len(req.Items))}
	for i, item := range req.Items {
		effective := promo.PriceFor(promos, item.MenuItemID, item.Price, now)
		resp.Items[i] = priceResponseItem{
			MenuItemID:     item.MenuItemID,
			OriginalPrice:  item.Price.StringFixed(0),
			EffectivePrice: effective.StringFixed(0),
			Discounted:     !effective.Equal(item.Price),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
