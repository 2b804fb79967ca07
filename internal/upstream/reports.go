package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// ReportParams scopes a report request. StartDate/EndDate use yyyy-MM-dd and
// are only set for the custom period.
type ReportParams struct {
	RestaurantID string
	Period       string
	Language     string
	StartDate    string
	EndDate      string
}

func (p ReportParams) query() url.Values {
	q := url.Values{
		"restaurantId": {p.RestaurantID},
		"period":       {p.Period},
	}
	if p.Language != "" {
		q.Set("lang", p.Language)
	}
	if p.StartDate != "" {
		q.Set("startDate", p.StartDate)
	}
	if p.EndDate != "" {
		q.Set("endDate", p.EndDate)
	}
	return q
}

// GetSalesReport fetches the aggregated sales report for a period.
func (c *Client) GetSalesReport(ctx context.Context, params ReportParams) (*SalesReport, error) {
	var report SalesReport
	if err := c.do(ctx, http.MethodGet, "/reports/sales", params.query(), nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetSalesHistory fetches the raw completed-order rows for a period. Session
// grouping and pagination happen locally in internal/report.
func (c *Client) GetSalesHistory(ctx context.Context, params ReportParams) ([]SalesHistoryRow, error) {
	var rows []SalesHistoryRow
	if err := c.do(ctx, http.MethodGet, "/reports/history", params.query(), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
