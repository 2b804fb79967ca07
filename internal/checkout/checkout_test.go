package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tabletap/staff-api/internal/checkout"
	"github.com/tabletap/staff-api/internal/enum"
	"github.com/tabletap/staff-api/internal/upstream"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func strptr(s string) *string { return &s }

func servedOrder(id string, table int, sessionID string, total int64) upstream.Order {
	var sid *string
	if sessionID != "" {
		sid = &sessionID
	}
	return upstream.Order{
		ID: id, TableID: table, SessionID: sid,
		Status: enum.OrderStatusServed, TotalAmount: d(total),
	}
}

// --- Mock client ---

type mockClient struct {
	mu            sync.Mutex
	orders        []upstream.Order
	methods       upstream.PaymentMethodsConfig
	methodsErr    error
	tableErr      error
	tableCalls    int
	tableStatuses []string
	release       chan struct{}
}

func (m *mockClient) ListOrders(ctx context.Context, restaurantID string) ([]upstream.Order, error) {
	return m.orders, nil
}

func (m *mockClient) GetPaymentMethods(ctx context.Context, restaurantID string) (*upstream.PaymentMethodsConfig, error) {
	if m.methodsErr != nil {
		return nil, m.methodsErr
	}
	cfg := m.methods
	return &cfg, nil
}

func (m *mockClient) UpdateTableStatus(ctx context.Context, restaurantID string, tableNumber int, status string) error {
	m.mu.Lock()
	m.tableCalls++
	m.tableStatuses = append(m.tableStatuses, status)
	release := m.release
	m.mu.Unlock()

	if release != nil {
		<-release
	}
	return m.tableErr
}

func (m *mockClient) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tableCalls
}

func allMethods() upstream.PaymentMethodsConfig {
	return upstream.PaymentMethodsConfig{
		Cash:         upstream.MethodToggle{Enabled: true},
		Card:         upstream.MethodToggle{Enabled: true},
		BankTransfer: upstream.BankTransferConfig{Enabled: true},
	}
}

// --- Billable set ---

func TestBillableOrdersFiltersBySession(t *testing.T) {
	orders := []upstream.Order{
		servedOrder("o-1", 4, "S1", 30000),
		servedOrder("o-2", 4, "S2", 20000), // other session
		servedOrder("o-3", 5, "S1", 10000), // other table
		{ID: "o-4", TableID: 4, SessionID: strptr("S1"), Status: enum.OrderStatusCooking, TotalAmount: d(5000)},
		servedOrder("o-5", 4, "", 7000), // no session on order
	}

	billable := checkout.BillableOrders(orders, 4, strptr("S1"))
	if len(billable) != 1 || billable[0].ID != "o-1" {
		t.Fatalf("expected only o-1, got %+v", billable)
	}
	if got := checkout.Total(billable); !got.Equal(d(30000)) {
		t.Errorf("total: got %s, want 30000", got)
	}
}

func TestBillableOrdersEmptyWithoutActiveSession(t *testing.T) {
	orders := []upstream.Order{
		servedOrder("o-1", 4, "S1", 30000),
		servedOrder("o-2", 4, "S1", 20000),
	}

	if got := checkout.BillableOrders(orders, 4, nil); len(got) != 0 {
		t.Errorf("nil session: expected empty set, got %d orders", len(got))
	}
	if got := checkout.BillableOrders(orders, 4, strptr("")); len(got) != 0 {
		t.Errorf("empty session: expected empty set, got %d orders", len(got))
	}
}

// --- Payment method selection ---

func TestDefaultMethodPriority(t *testing.T) {
	cfg := allMethods()
	if got := checkout.DefaultMethod(cfg); got != enum.PaymentMethodCash {
		t.Errorf("got %s, want CASH", got)
	}

	cfg.Cash.Enabled = false
	if got := checkout.DefaultMethod(cfg); got != enum.PaymentMethodCard {
		t.Errorf("got %s, want CARD", got)
	}

	cfg.Card.Enabled = false
	if got := checkout.DefaultMethod(cfg); got != enum.PaymentMethodBankTransfer {
		t.Errorf("got %s, want BANK_TRANSFER", got)
	}

	cfg.BankTransfer.Enabled = false
	if got := checkout.DefaultMethod(cfg); got != "" {
		t.Errorf("got %s, want empty", got)
	}
}

// --- Open ---

func TestOpenBuildsSheet(t *testing.T) {
	client := &mockClient{
		orders: []upstream.Order{
			servedOrder("o-1", 4, "S1", 30000),
			servedOrder("o-2", 4, "S1", 20000),
		},
		methods: allMethods(),
	}
	svc := checkout.NewService(client, "resto-1", nil, zerolog.Nop())

	sheet, err := svc.Open(context.Background(), 4, strptr("S1"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(sheet.Orders) != 2 {
		t.Errorf("orders: got %d, want 2", len(sheet.Orders))
	}
	if !sheet.TotalAmount.Equal(d(50000)) {
		t.Errorf("total: got %s, want 50000", sheet.TotalAmount)
	}
	if sheet.SelectedMethod != enum.PaymentMethodCash {
		t.Errorf("selected: got %s, want CASH", sheet.SelectedMethod)
	}
	if len(sheet.EnabledMethods) != 3 {
		t.Errorf("enabled: got %v", sheet.EnabledMethods)
	}
}

// --- Complete ---

func TestCompleteMovesTableToCleaning(t *testing.T) {
	client := &mockClient{methods: allMethods()}
	var completed []int
	svc := checkout.NewService(client, "resto-1", func(table int) {
		completed = append(completed, table)
	}, zerolog.Nop())

	err := svc.Complete(context.Background(), checkout.CompleteRequest{
		TableNumber:   4,
		PaymentMethod: enum.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if client.calls() != 1 || client.tableStatuses[0] != enum.TableStatusCleaning {
		t.Errorf("expected one CLEANING update, got %v", client.tableStatuses)
	}
	if len(completed) != 1 || completed[0] != 4 {
		t.Errorf("expected completion callback for table 4, got %v", completed)
	}
}

func TestCompletePreconditions(t *testing.T) {
	client := &mockClient{methods: allMethods()}
	svc := checkout.NewService(client, "resto-1", nil, zerolog.Nop())

	cases := []struct {
		name string
		req  checkout.CompleteRequest
		want error
	}{
		{"no method", checkout.CompleteRequest{TableNumber: 4}, checkout.ErrNoPaymentMethod},
		{"bad table", checkout.CompleteRequest{TableNumber: 0, PaymentMethod: enum.PaymentMethodCash}, checkout.ErrInvalidTable},
	}
	for _, tc := range cases {
		if err := svc.Complete(context.Background(), tc.req); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
	if client.calls() != 0 {
		t.Errorf("no table update expected, got %d", client.calls())
	}
}

func TestCompleteRejectsDisabledMethod(t *testing.T) {
	cfg := allMethods()
	cfg.BankTransfer.Enabled = false
	client := &mockClient{methods: cfg}
	svc := checkout.NewService(client, "resto-1", nil, zerolog.Nop())

	err := svc.Complete(context.Background(), checkout.CompleteRequest{
		TableNumber:   4,
		PaymentMethod: enum.PaymentMethodBankTransfer,
	})
	if !errors.Is(err, checkout.ErrMethodNotEnabled) {
		t.Errorf("got %v, want ErrMethodNotEnabled", err)
	}
}

func TestCompleteNoEnabledMethods(t *testing.T) {
	client := &mockClient{}
	svc := checkout.NewService(client, "resto-1", nil, zerolog.Nop())

	err := svc.Complete(context.Background(), checkout.CompleteRequest{
		TableNumber:   4,
		PaymentMethod: enum.PaymentMethodCash,
	})
	if !errors.Is(err, checkout.ErrNoEnabledMethods) {
		t.Errorf("got %v, want ErrNoEnabledMethods", err)
	}
}

func TestCompleteFailureAllowsRetry(t *testing.T) {
	client := &mockClient{methods: allMethods(), tableErr: errors.New("backend down")}
	var completed int
	svc := checkout.NewService(client, "resto-1", func(int) { completed++ }, zerolog.Nop())

	req := checkout.CompleteRequest{TableNumber: 4, PaymentMethod: enum.PaymentMethodCash}
	if err := svc.Complete(context.Background(), req); err == nil {
		t.Fatal("expected failure")
	}
	if completed != 0 {
		t.Error("callback must not run on failure")
	}

	client.tableErr = nil
	if err := svc.Complete(context.Background(), req); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if completed != 1 {
		t.Errorf("callback: got %d, want 1", completed)
	}
}

func TestCompleteConcurrentRejected(t *testing.T) {
	release := make(chan struct{})
	client := &mockClient{methods: allMethods(), release: release}
	svc := checkout.NewService(client, "resto-1", nil, zerolog.Nop())

	req := checkout.CompleteRequest{TableNumber: 4, PaymentMethod: enum.PaymentMethodCash}
	done := make(chan error, 1)
	go func() { done <- svc.Complete(context.Background(), req) }()

	for client.calls() == 0 {
		time.Sleep(time.Millisecond)
	}

	if err := svc.Complete(context.Background(), req); !errors.Is(err, checkout.ErrCheckoutInProgress) {
		t.Errorf("got %v, want ErrCheckoutInProgress", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first completion: %v", err)
	}
}
