package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tabletap/staff-api/internal/upstream"
)

// PageSize is the fixed client-side page size for the sales history.
const PageSize = 10

// SessionGroup is one table session row of the history view: the orders that
// shared a session, their combined total, and when the session started.
type SessionGroup struct {
	Key         string                    `json:"key"`
	SessionID   *string                   `json:"session_id,omitempty"`
	TableNumber int                       `json:"table_number"`
	StartedAt   time.Time                 `json:"started_at"`
	TotalAmount decimal.Decimal           `json:"total_amount"`
	Orders      []upstream.SalesHistoryRow `json:"orders"`
}

// Page is one page of grouped sessions.
type Page struct {
	Sessions      []SessionGroup `json:"sessions"`
	Page          int            `json:"page"`
	TotalPages    int            `json:"total_pages"`
	TotalSessions int            `json:"total_sessions"`
}

// groupKey falls back to table+timestamp for rows predating session IDs.
func groupKey(row upstream.SalesHistoryRow) string {
	if row.SessionID != nil && *row.SessionID != "" {
		return *row.SessionID
	}
	return fmt.Sprintf("%d-%s", row.TableNumber, row.CreatedAt.Format(time.RFC3339))
}

// GroupSessions folds history rows into session groups, newest session
// first. A session's start is the earliest contained order time; its total
// is the sum of its orders' totals.
func GroupSessions(rows []upstream.SalesHistoryRow) []SessionGroup {
	byKey := make(map[string]*SessionGroup)
	var keys []string

	for _, row := range rows {
		key := groupKey(row)
		group, ok := byKey[key]
		if !ok {
			group = &SessionGroup{
				Key:         key,
				SessionID:   row.SessionID,
				TableNumber: row.TableNumber,
				StartedAt:   row.CreatedAt,
				TotalAmount: decimal.Zero,
			}
			byKey[key] = group
			keys = append(keys, key)
		}
		if row.CreatedAt.Before(group.StartedAt) {
			group.StartedAt = row.CreatedAt
		}
		group.TotalAmount = group.TotalAmount.Add(row.TotalAmount)
		group.Orders = append(group.Orders, row)
	}

	groups := make([]SessionGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, *byKey[key])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].StartedAt.After(groups[j].StartedAt)
	})
	return groups
}

// Paginate slices groups into a fixed-size page. Pages are 1-based; a page
// beyond the end is empty, not an error.
func Paginate(groups []SessionGroup, page int) Page {
	if page < 1 {
		page = 1
	}

	totalPages := (len(groups) + PageSize - 1) / PageSize
	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(groups) {
		start, end = len(groups), len(groups)
	} else if end > len(groups) {
		end = len(groups)
	}

	return Page{
		Sessions:      groups[start:end],
		Page:          page,
		TotalPages:    totalPages,
		TotalSessions: len(groups),
	}
}
