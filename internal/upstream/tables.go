package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type updateTableStatusPayload struct {
	Status string `json:"status"`
}

// UpdateTableStatus issues the table status mutation. Checkout completion
// sends enum.TableStatusCleaning here.
func (c *Client) UpdateTableStatus(ctx context.Context, restaurantID string, tableNumber int, status string) error {
	path := fmt.Sprintf("/restaurants/%s/tables/%d/status", url.PathEscape(restaurantID), tableNumber)
	return c.do(ctx, http.MethodPut, path, nil, updateTableStatusPayload{Status: status}, nil)
}
