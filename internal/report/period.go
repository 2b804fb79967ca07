package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/tabletap/staff-api/internal/enum"
	"github.com/tabletap/staff-api/internal/upstream"
)

const dateLayout = "2006-01-02"

var ErrCustomRangeIncomplete = errors.New("custom period requires both start_date and end_date")

// Period selects the report window. StartDate/EndDate are only set for the
// custom kind.
type Period struct {
	Kind      string
	StartDate string
	EndDate   string
}

// ParsePeriod validates a period selection. A custom period must carry both
// bounds before any upstream call is made.
func ParsePeriod(kind, startDate, endDate string) (Period, error) {
	switch kind {
	case enum.ReportPeriodToday, enum.ReportPeriodWeek, enum.ReportPeriodMonth:
		return Period{Kind: kind}, nil
	case enum.ReportPeriodCustom:
		if startDate == "" || endDate == "" {
			return Period{}, ErrCustomRangeIncomplete
		}
		start, err := time.Parse(dateLayout, startDate)
		if err != nil {
			return Period{}, fmt.Errorf("invalid start_date format, use YYYY-MM-DD")
		}
		end, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return Period{}, fmt.Errorf("invalid end_date format, use YYYY-MM-DD")
		}
		if start.After(end) {
			return Period{}, fmt.Errorf("start_date must not be after end_date")
		}
		return Period{Kind: kind, StartDate: startDate, EndDate: endDate}, nil
	default:
		return Period{}, fmt.Errorf("unknown period %q", kind)
	}
}

// Params builds the upstream report parameters for this period.
func (p Period) Params(restaurantID, language string) upstream.ReportParams {
	return upstream.ReportParams{
		RestaurantID: restaurantID,
		Period:       p.Kind,
		Language:     language,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
	}
}
