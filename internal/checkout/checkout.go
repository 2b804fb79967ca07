// Package checkout computes the billable set for a table session and
// finalizes payment by moving the table into cleaning.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tabletap/staff-api/internal/enum"
	"github.com/tabletap/staff-api/internal/order"
	"github.com/tabletap/staff-api/internal/upstream"
)

var (
	ErrNoPaymentMethod    = errors.New("no payment method selected")
	ErrMethodNotEnabled   = errors.New("payment method is not enabled")
	ErrNoEnabledMethods   = errors.New("no payment method is enabled for this restaurant")
	ErrMissingRestaurant  = errors.New("restaurant is not configured")
	ErrInvalidTable       = errors.New("table number must be positive")
	ErrCheckoutInProgress = errors.New("checkout for this table is already being processed")
)

// Client is the slice of the upstream client checkout needs.
// Satisfied by *upstream.Client; narrow interface for testability.
type Client interface {
	ListOrders(ctx context.Context, restaurantID string) ([]upstream.Order, error)
	GetPaymentMethods(ctx context.Context, restaurantID string) (*upstream.PaymentMethodsConfig, error)
	UpdateTableStatus(ctx context.Context, restaurantID string, tableNumber int, status string) error
}

// Sheet is an opened checkout: the billable orders, their total, and the
// payment methods with the default selection applied.
type Sheet struct {
	TableNumber    int
	SessionID      *string
	Orders         []upstream.Order
	TotalAmount    decimal.Decimal
	Methods        upstream.PaymentMethodsConfig
	EnabledMethods []string
	SelectedMethod string
}

// CompleteRequest finalizes a checkout.
type CompleteRequest struct {
	TableNumber   int
	PaymentMethod string
}

// Service drives the checkout workflow against the core API.
type Service struct {
	client       Client
	restaurantID string
	log          zerolog.Logger
	onComplete   func(tableNumber int)

	mu         sync.Mutex
	processing map[int]bool
}

// NewService creates a checkout service. onComplete may be nil; it runs after
// a successful completion, before the caller sees the result.
func NewService(client Client, restaurantID string, onComplete func(tableNumber int), log zerolog.Logger) *Service {
	return &Service{
		client:       client,
		restaurantID: restaurantID,
		log:          log,
		onComplete:   onComplete,
		processing:   make(map[int]bool),
	}
}

// BillableOrders filters orders down to the checkout set: served, on this
// table, and belonging to the active session. Without an active session the
// set is empty regardless of served orders.
func BillableOrders(orders []upstream.Order, tableNumber int, sessionID *string) []upstream.Order {
	if sessionID == nil || *sessionID == "" {
		return nil
	}

	var billable []upstream.Order
	for _, o := range orders {
		if o.TableID != tableNumber {
			continue
		}
		status, err := order.ParseStatus(o.Status)
		if err != nil || status != order.StatusServed {
			continue
		}
		if o.SessionID == nil || *o.SessionID != *sessionID {
			continue
		}
		billable = append(billable, o)
	}
	return billable
}

// Total sums the orders' reported totals.
func Total(orders []upstream.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalAmount)
	}
	return total
}

// methodPriority is the auto-selection order: cash, then card, then transfer.
var methodPriority = []string{
	enum.PaymentMethodCash,
	enum.PaymentMethodCard,
	enum.PaymentMethodBankTransfer,
}

// EnabledMethods lists enabled methods in priority order.
func EnabledMethods(cfg upstream.PaymentMethodsConfig) []string {
	var enabled []string
	for _, m := range methodPriority {
		if methodEnabled(cfg, m) {
			enabled = append(enabled, m)
		}
	}
	return enabled
}

// DefaultMethod returns the first enabled method, or "" when none is.
func DefaultMethod(cfg upstream.PaymentMethodsConfig) string {
	if enabled := EnabledMethods(cfg); len(enabled) > 0 {
		return enabled[0]
	}
	return ""
}

func methodEnabled(cfg upstream.PaymentMethodsConfig, method string) bool {
	switch method {
	case enum.PaymentMethodCash:
		return cfg.Cash.Enabled
	case enum.PaymentMethodCard:
		return cfg.Card.Enabled
	case enum.PaymentMethodBankTransfer:
		return cfg.BankTransfer.Enabled
	}
	return false
}

// Open fetches orders and payment configuration and builds the sheet. The
// payment config is read once here and not re-fetched while the sheet is
// open; completion re-reads it to validate the final selection.
func (s *Service) Open(ctx context.Context, tableNumber int, sessionID *string) (*Sheet, error) {
	if s.restaurantID == "" {
		return nil, ErrMissingRestaurant
	}
	if tableNumber <= 0 {
		return nil, ErrInvalidTable
	}

	orders, err := s.client.ListOrders(ctx, s.restaurantID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.client.GetPaymentMethods(ctx, s.restaurantID)
	if err != nil {
		return nil, err
	}

	billable := BillableOrders(orders, tableNumber, sessionID)
	return &Sheet{
		TableNumber:    tableNumber,
		SessionID:      sessionID,
		Orders:         billable,
		TotalAmount:    Total(billable),
		Methods:        *cfg,
		EnabledMethods: EnabledMethods(*cfg),
		SelectedMethod: DefaultMethod(*cfg),
	}, nil
}

// Complete finalizes the checkout: validates the selection against the
// current payment config and moves the table to cleaning. A concurrent
// completion for the same table is rejected; on failure the checkout stays
// open and the caller may retry.
func (s *Service) Complete(ctx context.Context, req CompleteRequest) error {
	if s.restaurantID == "" {
		return ErrMissingRestaurant
	}
	if req.TableNumber <= 0 {
		return ErrInvalidTable
	}
	if req.PaymentMethod == "" {
		return ErrNoPaymentMethod
	}

	if err := s.begin(req.TableNumber); err != nil {
		return err
	}
	defer s.end(req.TableNumber)

	cfg, err := s.client.GetPaymentMethods(ctx, s.restaurantID)
	if err != nil {
		return err
	}
	if len(EnabledMethods(*cfg)) == 0 {
		return ErrNoEnabledMethods
	}
	if !methodEnabled(*cfg, req.PaymentMethod) {
		return fmt.Errorf("%w: %s", ErrMethodNotEnabled, req.PaymentMethod)
	}

	if err := s.client.UpdateTableStatus(ctx, s.restaurantID, req.TableNumber, enum.TableStatusCleaning); err != nil {
		s.log.Warn().Err(err).Int("table", req.TableNumber).Msg("checkout completion failed")
		return err
	}

	s.log.Info().Int("table", req.TableNumber).Str("method", req.PaymentMethod).
		Msg("checkout completed")

	if s.onComplete != nil {
		s.onComplete(req.TableNumber)
	}
	return nil
}

func (s *Service) begin(tableNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing[tableNumber] {
		return ErrCheckoutInProgress
	}
	s.processing[tableNumber] = true
	return nil
}

func (s *Service) end(tableNumber int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.processing, tableNumber)
}
