// Package staff is the thin admin order-management view: list orders with
// server-side filters, mutate their status, and a few client-side helpers
// for dashboard summaries.
package staff

import (
	"sort"
	"strings"
	"time"

	"github.com/wichananm65/storefront-client/internal/order"
)

// Query narrows and pages a staff order listing.
type Query struct {
	Status    order.Status
	StartDate string // YYYY-MM-DD inclusive
	EndDate   string
	Search    string // matches order number or username
	Page      int
	Limit     int
	SortBy    string // created_at (default) or total
	SortDir   string // asc or desc (default)
}

// CountByStatus tallies orders per status.
func CountByStatus(orders []order.Order) map[order.Status]int {
	counts := map[order.Status]int{
		order.StatusPending:    0,
		order.StatusProcessing: 0,
		order.StatusShipped:    0,
		order.StatusDelivered:  0,
		order.StatusCancelled:  0,
	}
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}

// TotalSales sums the totals of the given orders.
func TotalSales(orders []order.Order) float64 {
	var sum float64
	for _, o := range orders {
		sum += o.Total
	}
	return sum
}

// Recent returns the n most recently created orders.
func Recent(orders []order.Order, n int) []order.Order {
	sorted := make([]order.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return parseTime(sorted[i].CreatedAt).After(parseTime(sorted[j].CreatedAt))
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// Filter applies q's status/date/search criteria and sorting client-side,
// for when the full list is already in memory.
func Filter(orders []order.Order, q Query) []order.Order {
	result := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		if q.StartDate != "" {
			if t, err := time.Parse("2006-01-02", q.StartDate); err == nil && parseTime(o.CreatedAt).Before(t) {
				continue
			}
		}
		if q.EndDate != "" {
			// the window covers the whole end day; midnight of the next day
			// is already outside it
			if t, err := time.Parse("2006-01-02", q.EndDate); err == nil && !parseTime(o.CreatedAt).Before(t.Add(24*time.Hour)) {
				continue
			}
		}
		if q.Search != "" {
			term := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(o.OrderNumber), term) &&
				!strings.Contains(strings.ToLower(o.User), term) {
				continue
			}
		}
		result = append(result, o)
	}

	asc := q.SortDir == "asc"
	switch q.SortBy {
	case "total", "total_amount":
		sort.SliceStable(result, func(i, j int) bool {
			if asc {
				return result[i].Total < result[j].Total
			}
			return result[i].Total > result[j].Total
		})
	default:
		sort.SliceStable(result, func(i, j int) bool {
			a, b := parseTime(result[i].CreatedAt), parseTime(result[j].CreatedAt)
			if asc {
				return a.Before(b)
			}
			return a.After(b)
		})
	}
	return result
}

// Page slices a filtered list according to q's pagination.
func Page(orders []order.Order, q Query) []order.Order {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(orders) {
		return []order.Order{}
	}
	end := start + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[start:end]
}

func parseTime(v string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
