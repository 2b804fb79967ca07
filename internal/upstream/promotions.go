package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// ListPromotions returns the restaurant's promotions in the order the core
// API defines; internal/promo relies on that order when picking the active
// promotion for a menu item.
func (c *Client) ListPromotions(ctx context.Context, restaurantID string) ([]Promotion, error) {
	query := url.Values{"restaurantId": {restaurantID}}
	var promos []Promotion
	if err := c.do(ctx, http.MethodGet, "/promotions", query, nil, &promos); err != nil {
		return nil, err
	}
	return promos, nil
}
