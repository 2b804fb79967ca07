package order

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tabletap/staff-api/internal/upstream"
)

// ItemSubtotal computes unitPrice×quantity plus the option subtotals. When
// unitPrice is absent the line price already is the pre-option subtotal, so
// it is taken as-is; dividing it by quantity and multiplying back would lose
// precision for prices not divisible by the quantity.
func ItemSubtotal(item upstream.OrderItem) decimal.Decimal {
	qty := decimal.NewFromInt32(item.Quantity)

	subtotal := item.UnitPrice.Mul(qty)
	if item.UnitPrice.IsZero() && item.Quantity > 0 {
		subtotal = item.Price
	}

	for _, opt := range item.Options {
		subtotal = subtotal.Add(opt.Price.Mul(decimal.NewFromInt32(opt.Quantity)))
	}
	return subtotal
}

// Total sums the item subtotals of an order.
func Total(items []upstream.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(ItemSubtotal(item))
	}
	return total
}

// VerifyTotal checks the order's reported total against the recomputed sum.
func VerifyTotal(o upstream.Order) error {
	computed := Total(o.Items)
	if !computed.Equal(o.TotalAmount) {
		return fmt.Errorf("order %s total mismatch: reported %s, computed %s",
			o.ID, o.TotalAmount, computed)
	}
	return nil
}
