package promo_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tabletap/staff-api/internal/promo"
	"github.com/tabletap/staff-api/internal/upstream"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func promotion(id string, pct int64, start, end time.Time, items ...string) upstream.Promotion {
	return upstream.Promotion{
		ID:              id,
		IsActive:        true,
		DiscountPercent: decimal.NewFromInt(pct),
		StartDate:       start,
		EndDate:         end,
		MenuItemIDs:     items,
	}
}

func TestDiscountedPriceFloors(t *testing.T) {
	cases := []struct {
		original, pct, want int64
	}{
		{50000, 10, 45000},
		{55555, 15, 47221}, // 55555 * 0.85 = 47221.75, floored
		{50000, 0, 50000},
		{50000, 100, 0},
	}
	for _, tc := range cases {
		got := promo.DiscountedPrice(decimal.NewFromInt(tc.original), decimal.NewFromInt(tc.pct))
		if !got.Equal(decimal.NewFromInt(tc.want)) {
			t.Errorf("%d at %d%%: got %s, want %d", tc.original, tc.pct, got, tc.want)
		}
	}
}

func TestActivePromotionPicksFirstMatching(t *testing.T) {
	now := date(2026, 8, 15)
	promos := []upstream.Promotion{
		promotion("p-1", 0, date(2026, 8, 1), date(2026, 8, 31), "m-1"),  // zero discount
		promotion("p-2", 10, date(2026, 8, 1), date(2026, 8, 31), "m-1"), // first valid
		promotion("p-3", 20, date(2026, 8, 1), date(2026, 8, 31), "m-1"),
	}

	p := promo.ActivePromotion(promos, "m-1", now)
	if p == nil || p.ID != "p-2" {
		t.Fatalf("expected p-2, got %+v", p)
	}
}

func TestActivePromotionEndDateInclusive(t *testing.T) {
	promos := []upstream.Promotion{
		promotion("p-1", 10, date(2026, 8, 1), date(2026, 8, 31), "m-1"),
	}

	lastMoment := time.Date(2026, 8, 31, 23, 59, 59, 999_000_000, time.UTC)
	if promo.ActivePromotion(promos, "m-1", lastMoment) == nil {
		t.Error("promotion should still be active at 23:59:59.999 of the end date")
	}

	nextDay := date(2026, 9, 1)
	if promo.ActivePromotion(promos, "m-1", nextDay) != nil {
		t.Error("promotion should be over on the next day")
	}
}

func TestActivePromotionIgnoresOtherItems(t *testing.T) {
	promos := []upstream.Promotion{
		promotion("p-1", 10, date(2026, 8, 1), date(2026, 8, 31), "m-2"),
	}
	if promo.ActivePromotion(promos, "m-1", date(2026, 8, 15)) != nil {
		t.Error("promotion for another item must not apply")
	}
}

func TestPriceForIdentityWithoutPromotion(t *testing.T) {
	original := decimal.NewFromInt(50000)
	got := promo.PriceFor(nil, "m-1", original, date(2026, 8, 15))
	if !got.Equal(original) {
		t.Errorf("got %s, want %s", got, original)
	}
}

func TestPriceForAppliesDiscount(t *testing.T) {
	promos := []upstream.Promotion{
		promotion("p-1", 25, date(2026, 8, 1), date(2026, 8, 31), "m-1"),
	}
	got := promo.PriceFor(promos, "m-1", decimal.NewFromInt(50000), date(2026, 8, 15))
	if !got.Equal(decimal.NewFromInt(37500)) {
		t.Errorf("got %s, want 37500", got)
	}
}
