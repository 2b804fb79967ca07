package report_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tabletap/staff-api/internal/enum"
	"github.com/tabletap/staff-api/internal/report"
	"github.com/tabletap/staff-api/internal/upstream"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// --- Period ---

func TestParsePeriodKnownKinds(t *testing.T) {
	for _, kind := range []string{enum.ReportPeriodToday, enum.ReportPeriodWeek, enum.ReportPeriodMonth} {
		if _, err := report.ParsePeriod(kind, "", ""); err != nil {
			t.Errorf("%s: %v", kind, err)
		}
	}
}

func TestParsePeriodCustomRequiresBothBounds(t *testing.T) {
	if _, err := report.ParsePeriod(enum.ReportPeriodCustom, "2026-08-01", ""); !errors.Is(err, report.ErrCustomRangeIncomplete) {
		t.Errorf("got %v, want ErrCustomRangeIncomplete", err)
	}
	if _, err := report.ParsePeriod(enum.ReportPeriodCustom, "", "2026-08-31"); !errors.Is(err, report.ErrCustomRangeIncomplete) {
		t.Errorf("got %v, want ErrCustomRangeIncomplete", err)
	}

	p, err := report.ParsePeriod(enum.ReportPeriodCustom, "2026-08-01", "2026-08-31")
	if err != nil {
		t.Fatalf("custom: %v", err)
	}
	if p.StartDate != "2026-08-01" || p.EndDate != "2026-08-31" {
		t.Errorf("bounds: %+v", p)
	}
}

func TestParsePeriodRejectsReversedRange(t *testing.T) {
	if _, err := report.ParsePeriod(enum.ReportPeriodCustom, "2026-08-31", "2026-08-01"); err == nil {
		t.Fatal("expected error for reversed range")
	}
}

func TestParsePeriodRejectsUnknownKind(t *testing.T) {
	if _, err := report.ParsePeriod("quarter", "", ""); err == nil {
		t.Fatal("expected error for unknown period")
	}
}

// --- Summary ---

func sampleReport() *upstream.SalesReport {
	return &upstream.SalesReport{
		Today: upstream.TodaySnapshot{
			Revenue:          d(1200000),
			Orders:           24,
			YesterdayRevenue: d(1000000),
		},
		Weekly: []upstream.DailySales{
			{Date: "2026-08-25", Revenue: d(900000), Orders: 18},
			{Date: "2026-08-26", Revenue: d(1100000), Orders: 22},
			{Date: "2026-08-27", Revenue: d(1000000), Orders: 20},
		},
	}
}

func TestBuildSummaryToday(t *testing.T) {
	s := report.BuildSummary(sampleReport(), report.Period{Kind: enum.ReportPeriodToday})

	if !s.TotalRevenue.Equal(d(1200000)) {
		t.Errorf("revenue: got %s, want 1200000", s.TotalRevenue)
	}
	if s.TotalOrders != 24 {
		t.Errorf("orders: got %d, want 24", s.TotalOrders)
	}
	if s.RevenueChangePercent == nil || *s.RevenueChangePercent != "20.0" {
		t.Errorf("change: got %v, want 20.0", s.RevenueChangePercent)
	}
	// avg orders = round((18+22+20)/3) = 20
	if s.OrdersChange != 4 {
		t.Errorf("orders change: got %d, want 4", s.OrdersChange)
	}
}

func TestBuildSummaryWeekSumsSeries(t *testing.T) {
	s := report.BuildSummary(sampleReport(), report.Period{Kind: enum.ReportPeriodWeek})

	if !s.TotalRevenue.Equal(d(3000000)) {
		t.Errorf("revenue: got %s, want 3000000", s.TotalRevenue)
	}
	if s.TotalOrders != 60 {
		t.Errorf("orders: got %d, want 60", s.TotalOrders)
	}
	if s.RevenueChangePercent != nil {
		t.Errorf("change must be omitted for non-today periods, got %v", *s.RevenueChangePercent)
	}
}

func TestBuildSummaryOmitsChangeWhenYesterdayZero(t *testing.T) {
	r := sampleReport()
	r.Today.YesterdayRevenue = decimal.Zero

	s := report.BuildSummary(r, report.Period{Kind: enum.ReportPeriodToday})
	if s.RevenueChangePercent != nil {
		t.Errorf("change must be omitted when yesterday is 0, got %v", *s.RevenueChangePercent)
	}
}

func TestBuildSummaryEmptyWeekly(t *testing.T) {
	r := &upstream.SalesReport{}
	s := report.BuildSummary(r, report.Period{Kind: enum.ReportPeriodWeek})
	if !s.TotalRevenue.IsZero() || s.TotalOrders != 0 || s.OrdersChange != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestCategoryShares(t *testing.T) {
	shares := report.CategoryShares([]upstream.CategorySales{
		{Category: "Noodles", Revenue: d(750000), Orders: 15},
		{Category: "Drinks", Revenue: d(250000), Orders: 25},
	})
	if shares[0].Percent != "75.0" || shares[1].Percent != "25.0" {
		t.Errorf("percents: got %s / %s", shares[0].Percent, shares[1].Percent)
	}
}

func TestCategorySharesZeroTotal(t *testing.T) {
	shares := report.CategoryShares([]upstream.CategorySales{
		{Category: "Noodles", Revenue: decimal.Zero},
	})
	if shares[0].Percent != "0.0" {
		t.Errorf("percent: got %s, want 0.0", shares[0].Percent)
	}
}

// --- History grouping ---

func row(orderID, sessionID string, table int, at time.Time, total int64) upstream.SalesHistoryRow {
	var sid *string
	if sessionID != "" {
		sid = &sessionID
	}
	return upstream.SalesHistoryRow{
		OrderID: orderID, SessionID: sid, TableNumber: table,
		CreatedAt: at, TotalAmount: d(total),
	}
}

func TestGroupSessionsSumsTotals(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	groups := report.GroupSessions([]upstream.SalesHistoryRow{
		row("o-1", "S1", 4, base, 30000),
		row("o-2", "S1", 4, base.Add(10*time.Minute), 20000),
	})

	if len(groups) != 1 {
		t.Fatalf("expected 1 session, got %d", len(groups))
	}
	if !groups[0].TotalAmount.Equal(d(50000)) {
		t.Errorf("total: got %s, want 50000", groups[0].TotalAmount)
	}
	if !groups[0].StartedAt.Equal(base) {
		t.Errorf("started at: got %s, want %s", groups[0].StartedAt, base)
	}
	if len(groups[0].Orders) != 2 {
		t.Errorf("orders: got %d, want 2", len(groups[0].Orders))
	}
}

func TestGroupSessionsFallbackKey(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	groups := report.GroupSessions([]upstream.SalesHistoryRow{
		row("o-1", "", 4, base, 30000),
		row("o-2", "", 4, base.Add(time.Hour), 20000), // different timestamp, separate group
		row("o-3", "", 5, base, 10000),                // different table, separate group
	})

	if len(groups) != 3 {
		t.Fatalf("expected 3 separate sessions, got %d", len(groups))
	}
}

func TestGroupSessionsSortedNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	groups := report.GroupSessions([]upstream.SalesHistoryRow{
		row("o-1", "S1", 4, base, 30000),
		row("o-2", "S2", 5, base.Add(time.Hour), 20000),
		row("o-3", "S1", 4, base.Add(2*time.Hour), 5000), // S1 started earlier
	})

	if len(groups) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(groups))
	}
	if groups[0].Key != "S2" || groups[1].Key != "S1" {
		t.Errorf("order: got %s, %s; want S2, S1", groups[0].Key, groups[1].Key)
	}
}

// --- Pagination ---

func manyGroups(n int) []report.SessionGroup {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	var rows []upstream.SalesHistoryRow
	for i := 0; i < n; i++ {
		rows = append(rows, row("o", "", 1, base.Add(time.Duration(i)*time.Minute), 1000))
	}
	return report.GroupSessions(rows)
}

func TestPaginateFixedPageSize(t *testing.T) {
	groups := manyGroups(25)

	page1 := report.Paginate(groups, 1)
	if len(page1.Sessions) != 10 || page1.TotalPages != 3 || page1.TotalSessions != 25 {
		t.Errorf("page 1: %d sessions, %d pages, %d total", len(page1.Sessions), page1.TotalPages, page1.TotalSessions)
	}

	page3 := report.Paginate(groups, 3)
	if len(page3.Sessions) != 5 {
		t.Errorf("page 3: got %d sessions, want 5", len(page3.Sessions))
	}

	beyond := report.Paginate(groups, 9)
	if len(beyond.Sessions) != 0 {
		t.Errorf("page beyond end should be empty, got %d", len(beyond.Sessions))
	}
}

func TestPaginateClampsPage(t *testing.T) {
	groups := manyGroups(5)
	page := report.Paginate(groups, 0)
	if page.Page != 1 || len(page.Sessions) != 5 {
		t.Errorf("clamped page: %+v", page)
	}
}
