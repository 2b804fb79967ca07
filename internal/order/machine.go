package order

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tabletap/staff-api/internal/upstream"
)

// ErrTransitionInFlight is returned when a transition for the same order is
// already awaiting the core API. Requests are serialized per order; the
// second caller gets a conflict instead of racing last-write-wins.
var ErrTransitionInFlight = errors.New("a status change for this order is already in progress")

// OrderClient is the slice of the upstream client the machine needs.
// Satisfied by *upstream.Client; narrow interface for testability.
type OrderClient interface {
	GetOrder(ctx context.Context, orderID string) (*upstream.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) (*upstream.Order, error)
}

// Notifier receives successful transitions, e.g. to push board updates.
type Notifier interface {
	OrderStatusChanged(order upstream.Order, notice string)
}

// TransitionResult is the authoritative order state after a transition plus
// the staff-facing confirmation notice.
type TransitionResult struct {
	Order  upstream.Order
	Notice string
}

// Machine validates and requests order status transitions. The core API is
// authoritative; the machine only enforces legal edges before issuing a
// request and serializes requests per order.
type Machine struct {
	client   OrderClient
	notifier Notifier
	log      zerolog.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// NewMachine creates a Machine. notifier may be nil.
func NewMachine(client OrderClient, notifier Notifier, log zerolog.Logger) *Machine {
	return &Machine{
		client:   client,
		notifier: notifier,
		log:      log,
		inflight: make(map[string]bool),
	}
}

// RequestTransition moves one order to target. The current status comes from
// a fresh read, the edge is validated locally, and only then is the mutation
// sent. On any failure nothing is mutated locally and the error carries the
// reason.
func (m *Machine) RequestTransition(ctx context.Context, orderID string, target Status) (*TransitionResult, error) {
	if err := m.begin(orderID); err != nil {
		return nil, err
	}
	defer m.end(orderID)

	current, err := m.client.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from, err := ParseStatus(current.Status)
	if err != nil {
		return nil, err
	}
	if err := CanTransition(from, target); err != nil {
		return nil, err
	}

	updated, err := m.client.UpdateOrderStatus(ctx, orderID, target.Wire())
	if err != nil {
		m.log.Warn().Err(err).Str("order_id", orderID).Str("target", string(target)).
			Msg("status transition rejected")
		return nil, err
	}

	notice := Notice(target)
	m.log.Info().Str("order_id", orderID).Str("from", string(from)).Str("to", string(target)).
		Msg("order status changed")

	if m.notifier != nil {
		m.notifier.OrderStatusChanged(*updated, notice)
	}

	return &TransitionResult{Order: *updated, Notice: notice}, nil
}

func (m *Machine) begin(orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inflight[orderID] {
		return ErrTransitionInFlight
	}
	m.inflight[orderID] = true
	return nil
}

func (m *Machine) end(orderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inflight, orderID)
}
