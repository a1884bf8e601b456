package catalog

import (
	"sort"
	"strings"
)

// FilterState is the client-side filter selection applied over an
// already-fetched product list.
type FilterState struct {
	Search      string
	Brands      []string
	Connections []string
	PriceRanges []string
	SortBy      string
}

// sort orders understood by Apply.
const (
	SortDefault   = "default"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortName      = "name"
)

// DefaultPriceRanges mirrors the buckets the backend's facet endpoint
// names; Apply matches selections against these names.
var DefaultPriceRanges = []PriceRange{
	{Name: "Under $100", Min: 0, Max: ptr(100.0)},
	{Name: "$100 - $300", Min: 100, Max: ptr(300.0)},
	{Name: "$300 - $500", Min: 300, Max: ptr(500.0)},
	{Name: "Over $500", Min: 500, Max: nil},
}

func ptr[T any](v T) *T { return &v }

// Apply filters and sorts products according to state. The input slice is
// not modified.
func Apply(products []Product, state FilterState, ranges []PriceRange) []Product {
	if ranges == nil {
		ranges = DefaultPriceRanges
	}

	result := make([]Product, 0, len(products))
	for _, p := range products {
		if !matches(p, state, ranges) {
			continue
		}
		result = append(result, p)
	}

	switch state.SortBy {
	case SortPriceLow:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	case SortPriceHigh:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price > result[j].Price })
	case SortName:
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
		})
	}
	return result
}

func matches(p Product, state FilterState, ranges []PriceRange) bool {
	if q := strings.ToLower(strings.TrimSpace(state.Search)); q != "" {
		name := strings.ToLower(p.Name)
		desc := strings.ToLower(p.Description)
		if !strings.Contains(name, q) && !strings.Contains(desc, q) {
			return false
		}
	}

	if len(state.Brands) > 0 && !contains(state.Brands, p.Brand) {
		return false
	}

	if len(state.Connections) > 0 {
		conns := splitConnections(p.Connections)
		found := false
		for _, want := range state.Connections {
			if contains(conns, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(state.PriceRanges) > 0 {
		found := false
		for _, name := range state.PriceRanges {
			if rangeMatches(ranges, name, p.Price) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func rangeMatches(ranges []PriceRange, name string, price float64) bool {
	for _, r := range ranges {
		if r.Name != name {
			continue
		}
		if price < r.Min {
			return false
		}
		if r.Max != nil && price >= *r.Max {
			return false
		}
		return true
	}
	return false
}

// products store their connection types as a comma-separated string
func splitConnections(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
