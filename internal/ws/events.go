package ws

import (
	"encoding/json"
	"strings"

	"github.com/tabletap/staff-api/internal/upstream"
)

// EventOrderStatusChanged is broadcast after a successful status transition.
const EventOrderStatusChanged = "order.status_changed"

type orderStatusChangedPayload struct {
	OrderID     string `json:"order_id"`
	TableNumber int    `json:"table_number"`
	Status      string `json:"status"`
	Notice      string `json:"notice"`
}

// OrderNotifier broadcasts order transitions into a restaurant's room.
// Plugged into the status machine as its notifier.
type OrderNotifier struct {
	hub          *Hub
	restaurantID string
}

// NewOrderNotifier creates an OrderNotifier for one restaurant.
func NewOrderNotifier(hub *Hub, restaurantID string) *OrderNotifier {
	return &OrderNotifier{hub: hub, restaurantID: restaurantID}
}

// OrderStatusChanged implements the status machine's notifier hook.
func (n *OrderNotifier) OrderStatusChanged(o upstream.Order, notice string) {
	payload, err := json.Marshal(orderStatusChangedPayload{
		OrderID:     o.ID,
		TableNumber: o.TableID,
		Status:      strings.ToLower(o.Status),
		Notice:      notice,
	})
	if err != nil {
		return
	}
	n.hub.BroadcastToRestaurant(n.restaurantID, Event{
		Type:    EventOrderStatusChanged,
		Payload: payload,
	})
}
