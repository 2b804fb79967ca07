package upstream

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an order as the core API returns it. Status uses the upper-case
// wire spelling; internal/order owns the domain view.
type Order struct {
	ID          string          `json:"id"`
	TableID     int             `json:"tableId"`
	SessionID   *string         `json:"sessionId"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"timestamp"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type OrderItem struct {
	Name       string          `json:"name"`
	Quantity   int32           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	UnitPrice  decimal.Decimal `json:"unitPrice,omitempty"`
	MenuItemID string          `json:"menuItemId,omitempty"`
	Options    []ItemOption    `json:"options,omitempty"`
}

type ItemOption struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
}

// PaymentMethodsConfig is restaurant-scoped payment configuration. Fetched
// once per checkout open and treated as immutable for that interaction.
type PaymentMethodsConfig struct {
	Cash         MethodToggle       `json:"cash"`
	Card         MethodToggle       `json:"card"`
	BankTransfer BankTransferConfig `json:"bankTransfer"`
}

type MethodToggle struct {
	Enabled bool `json:"enabled"`
}

type BankTransferConfig struct {
	Enabled       bool   `json:"enabled"`
	BankName      string `json:"bankName"`
	AccountHolder string `json:"accountHolder"`
	AccountNumber string `json:"accountNumber"`
}

// Bank is one entry of the bank directory used for transfer QR generation.
type Bank struct {
	Code      string `json:"bin"`
	ShortName string `json:"shortName"`
	Name      string `json:"name"`
}

type Promotion struct {
	ID              string          `json:"id"`
	IsActive        bool            `json:"isActive"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	MenuItemIDs     []string        `json:"menuItemIds"`
}

// SalesReport is the report payload for one period.
type SalesReport struct {
	Today      TodaySnapshot   `json:"today"`
	Weekly     []DailySales    `json:"weekly"`
	Categories []CategorySales `json:"categories"`
}

type TodaySnapshot struct {
	Revenue          decimal.Decimal `json:"revenue"`
	Orders           int             `json:"orders"`
	YesterdayRevenue decimal.Decimal `json:"yesterdayRevenue"`
}

type DailySales struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

type CategorySales struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
	Orders   int             `json:"orders"`
}

// SalesHistoryRow is one completed order row of the sales history.
type SalesHistoryRow struct {
	OrderID     string          `json:"orderId"`
	SessionID   *string         `json:"sessionId"`
	TableNumber int             `json:"tableNumber"`
	CreatedAt   time.Time       `json:"createdAt"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// StaffAccount is the staff profile returned by the upstream login.
type StaffAccount struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	RestaurantID string `json:"restaurantId"`
}
