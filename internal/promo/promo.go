// Package promo applies menu promotions to item prices.
package promo

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tabletap/staff-api/internal/upstream"
)

var oneHundred = decimal.NewFromInt(100)

// windowContains reports whether now falls inside [startDate, endDate], with
// endDate inclusive through the last millisecond of that day.
func windowContains(p upstream.Promotion, now time.Time) bool {
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return false
	}
	end := time.Date(p.EndDate.Year(), p.EndDate.Month(), p.EndDate.Day(),
		23, 59, 59, 999_000_000, p.EndDate.Location())
	return !now.Before(p.StartDate) && !now.After(end)
}

// IsActiveNow reports whether a promotion currently applies to anything:
// positive discount and window containing now.
func IsActiveNow(p upstream.Promotion, now time.Time) bool {
	return p.DiscountPercent.IsPositive() && windowContains(p, now)
}

// ActivePromotion returns the first promotion (in fetched order) that covers
// the menu item, whose window contains now, and whose discount is positive.
// Nil when no promotion applies.
func ActivePromotion(promos []upstream.Promotion, menuItemID string, now time.Time) *upstream.Promotion {
	for i := range promos {
		p := &promos[i]
		if !p.DiscountPercent.IsPositive() || !windowContains(*p, now) {
			continue
		}
		for _, id := range p.MenuItemIDs {
			if id == menuItemID {
				return p
			}
		}
	}
	return nil
}

// DiscountedPrice is floor(original × (1 − pct/100)). A non-positive percent
// leaves the price untouched.
func DiscountedPrice(original, discountPercent decimal.Decimal) decimal.Decimal {
	if !discountPercent.IsPositive() {
		return original
	}
	factor := decimal.NewFromInt(1).Sub(discountPercent.Div(oneHundred))
	return original.Mul(factor).Floor()
}

// PriceFor resolves the effective price of a menu item: the discounted price
// under its active promotion, or the original price when none applies.
func PriceFor(promos []upstream.Promotion, menuItemID string, original decimal.Decimal, now time.Time) decimal.Decimal {
	p := ActivePromotion(promos, menuItemID, now)
	if p == nil {
		return original
	}
	return DiscountedPrice(original, p.DiscountPercent)
}
