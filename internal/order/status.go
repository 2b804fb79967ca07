package order

import (
	"fmt"
	"strings"

	"github.com/tabletap/staff-api/internal/enum"
)

// Status is an order lifecycle state. The zero value is not valid.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCooking   Status = "cooking"
	StatusServed    Status = "served"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// statusWire maps domain statuses to the upper-case spelling the core API
// uses on the wire.
var statusWire = map[Status]string{
	StatusPending:   enum.OrderStatusPending,
	StatusConfirmed: enum.OrderStatusConfirmed,
	StatusCooking:   enum.OrderStatusCooking,
	StatusServed:    enum.OrderStatusServed,
	StatusDelivered: enum.OrderStatusDelivered,
	StatusCancelled: enum.OrderStatusCancelled,
}

// ParseStatus accepts either the domain or the wire spelling.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := statusWire[status]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

// Wire returns the upper-case spelling for the core API.
func (s Status) Wire() string {
	return statusWire[s]
}

func (s Status) String() string {
	return string(s)
}

// allowedTransitions defines the legal forward edges. No backward edges, no
// skipping; cooking, served and delivered cannot be cancelled.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCooking, StatusCancelled},
	StatusCooking:   {StatusServed},
	StatusServed:    {StatusDelivered},
}

// IsTerminal reports whether no transition leaves the status.
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// NextStatuses returns the legal targets from a status.
func NextStatuses(from Status) []Status {
	return allowedTransitions[from]
}

// TransitionError is a rejected status edge. Allowed is empty when the
// current status is terminal.
type TransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *TransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("cannot transition from %s: terminal status", e.From)
	}
	return fmt.Sprintf("cannot transition from %s to %s; valid next statuses: %s",
		e.From, e.To, joinStatuses(e.Allowed))
}

// CanTransition checks the edge from current to next. The error names the
// valid next statuses so staff see why a tap was rejected.
func CanTransition(from, to Status) error {
	allowed, ok := allowedTransitions[from]
	if !ok || len(allowed) == 0 {
		return &TransitionError{From: from, To: to}
	}
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}
	return &TransitionError{From: from, To: to, Allowed: allowed}
}

func joinStatuses(statuses []Status) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// notices is the staff-facing confirmation copy per reached status.
var notices = map[Status]string{
	StatusConfirmed: "Order confirmed and sent to the kitchen",
	StatusCooking:   "Order is now being cooked",
	StatusServed:    "Order marked as served",
	StatusDelivered: "Order delivered, ready for checkout",
	StatusCancelled: "Order cancelled",
}

// Notice returns the confirmation message for a successfully reached status.
func Notice(target Status) string {
	return notices[target]
}
