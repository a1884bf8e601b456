package staff

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wichananm65/storefront-client/internal/order"
)

func dashboardOrders() []order.Order {
	return []order.Order{
		{ID: 1, OrderNumber: "ORD-100", User: "alice", Total: 250, Status: order.StatusPending, CreatedAt: "2025-08-01T09:00:00Z"},
		{ID: 2, OrderNumber: "ORD-101", User: "bob", Total: 90, Status: order.StatusDelivered, CreatedAt: "2025-08-03T09:00:00Z"},
		{ID: 3, OrderNumber: "ORD-102", User: "alice", Total: 600, Status: order.StatusShipped, CreatedAt: "2025-08-05 09:00:00"},
		{ID: 4, OrderNumber: "ORD-103", User: "carol", Total: 40, Status: order.StatusDelivered, CreatedAt: "2025-08-07"},
		{ID: 5, OrderNumber: "ORD-104", User: "bob", Total: 120, Status: order.StatusCancelled, CreatedAt: "2025-08-09T09:00:00Z"},
	}
}

func orderIDs(orders []order.Order) []int {
	out := make([]int, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	orders := dashboardOrders()

	tests := []struct {
		name string
		q    Query
		want []int
	}{
		{"default sorts newest first", Query{}, []int{5, 4, 3, 2, 1}},
		{"by status", Query{Status: order.StatusDelivered}, []int{4, 2}},
		{"start date inclusive", Query{StartDate: "2025-08-05"}, []int{5, 4, 3}},
		{"end date inclusive", Query{EndDate: "2025-08-03"}, []int{2, 1}},
		{"date window", Query{StartDate: "2025-08-03", EndDate: "2025-08-07"}, []int{4, 3, 2}},
		{"search by order number", Query{Search: "ord-102"}, []int{3}},
		{"search by username", Query{Search: "bob"}, []int{5, 2}},
		{"sort by total descending", Query{SortBy: "total"}, []int{3, 1, 5, 2, 4}},
		{"sort by total ascending", Query{SortBy: "total", SortDir: "asc"}, []int{4, 2, 5, 1, 3}},
		{"oldest first", Query{SortDir: "asc"}, []int{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, orderIDs(Filter(orders, tt.q)))
		})
	}
}

func TestFilterEndDateExcludesNextMidnight(t *testing.T) {
	orders := []order.Order{
		{ID: 1, CreatedAt: "2025-08-03T23:59:59Z"},
		{ID: 2, CreatedAt: "2025-08-04T00:00:00Z"},
		{ID: 3, CreatedAt: "2025-08-04T09:00:00Z"},
	}
	got := Filter(orders, Query{EndDate: "2025-08-03"})
	require.Equal(t, []int{1}, orderIDs(got))
}

func TestPage(t *testing.T) {
	orders := dashboardOrders()

	require.Equal(t, []int{1, 2}, orderIDs(Page(orders, Query{Page: 1, Limit: 2})))
	require.Equal(t, []int{3, 4}, orderIDs(Page(orders, Query{Page: 2, Limit: 2})))
	require.Equal(t, []int{5}, orderIDs(Page(orders, Query{Page: 3, Limit: 2})))
	require.Empty(t, Page(orders, Query{Page: 4, Limit: 2}))
	// zero values fall back to page 1, limit 10
	require.Len(t, Page(orders, Query{}), 5)
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus(dashboardOrders())
	require.Equal(t, 1, counts[order.StatusPending])
	require.Equal(t, 2, counts[order.StatusDelivered])
	require.Equal(t, 1, counts[order.StatusCancelled])
	// every status is present even when zero
	require.Equal(t, 0, counts[order.StatusProcessing])
	require.Len(t, counts, 5)
}

func TestTotalSales(t *testing.T) {
	require.Equal(t, 1100.0, TotalSales(dashboardOrders()))
	require.Equal(t, 0.0, TotalSales(nil))
}

func TestRecent(t *testing.T) {
	orders := dashboardOrders()
	require.Equal(t, []int{5, 4}, orderIDs(Recent(orders, 2)))
	require.Len(t, Recent(orders, 100), 5)
	// input order untouched
	require.Equal(t, []int{1, 2, 3, 4, 5}, orderIDs(orders))
}

func TestParseTimeLayouts(t *testing.T) {
	for _, v := range []string{"2025-08-01T09:00:00Z", "2025-08-01 09:00:00", "2025-08-01"} {
		require.False(t, parseTime(v).IsZero(), "layout %q", v)
	}
	require.True(t, parseTime("not a date").IsZero())
}
