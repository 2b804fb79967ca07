// Package report derives the staff dashboard figures from core-API report
// rows. It is a pure read-side projection: nothing here mutates upstream
// state.
package report

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/tabletap/staff-api/internal/enum"
	"github.com/tabletap/staff-api/internal/upstream"
)

// Summary is the derived headline block of the sales dashboard.
type Summary struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalOrders  int             `json:"total_orders"`
	// RevenueChangePercent is only present for the today period with a
	// non-zero yesterday baseline; one decimal place.
	RevenueChangePercent *string `json:"revenue_change_percent,omitempty"`
	OrdersChange         int     `json:"orders_change"`
}

// CategoryShare is one slice of the per-category distribution with a locally
// recomputed revenue share.
type CategoryShare struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
	Orders   int             `json:"orders"`
	Percent  string          `json:"percent"`
}

// BuildSummary derives totals and deltas for the selected period. The today
// period reads the snapshot; every other period sums the weekly series.
func BuildSummary(r *upstream.SalesReport, p Period) Summary {
	var revenue decimal.Decimal
	var orders int

	if p.Kind == enum.ReportPeriodToday {
		revenue = r.Today.Revenue
		orders = r.Today.Orders
	} else {
		for _, day := range r.Weekly {
			revenue = revenue.Add(day.Revenue)
			orders += day.Orders
		}
	}

	s := Summary{
		TotalRevenue: revenue,
		TotalOrders:  orders,
		OrdersChange: orders - averageOrders(r.Weekly),
	}

	if p.Kind == enum.ReportPeriodToday && !r.Today.YesterdayRevenue.IsZero() {
		change := r.Today.Revenue.Sub(r.Today.YesterdayRevenue).
			Div(r.Today.YesterdayRevenue).
			Mul(decimal.NewFromInt(100)).
			StringFixed(1)
		s.RevenueChangePercent = &change
	}

	return s
}

// averageOrders is round(mean(weekly orders)); zero for an empty series.
func averageOrders(weekly []upstream.DailySales) int {
	if len(weekly) == 0 {
		return 0
	}
	sum := 0
	for _, day := range weekly {
		sum += day.Orders
	}
	return int(math.Round(float64(sum) / float64(len(weekly))))
}

// CategoryShares recomputes each category's share of total revenue to one
// decimal place instead of trusting upstream percentages.
func CategoryShares(categories []upstream.CategorySales) []CategoryShare {
	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(c.Revenue)
	}

	shares := make([]CategoryShare, len(categories))
	for i, c := range categories {
		percent := "0.0"
		if !total.IsZero() {
			percent = c.Revenue.Div(total).Mul(decimal.NewFromInt(100)).StringFixed(1)
		}
		shares[i] = CategoryShare{
			Category: c.Category,
			Revenue:  c.Revenue,
			Orders:   c.Orders,
			Percent:  percent,
		}
	}
	return shares
}
