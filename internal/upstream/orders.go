package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// ListOrders returns all orders for the restaurant. The board and checkout
// both reconcile from this read; the core API is authoritative.
func (c *Client) ListOrders(ctx context.Context, restaurantID string) ([]Order, error) {
	query := url.Values{"restaurantId": {restaurantID}}
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/orders", query, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns a single order by ID.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

type updateOrderStatusPayload struct {
	Status string `json:"status"`
}

// UpdateOrderStatus issues the status mutation. Status must already be the
// upper-case wire spelling; legality of the edge is validated by the caller
// before anything is sent.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) (*Order, error) {
	var order Order
	err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(orderID)+"/status", nil,
		updateOrderStatusPayload{Status: status}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
