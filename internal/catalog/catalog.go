package catalog

// Product is the catalog entry shape served by the backend.
type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Connections string   `json:"connections,omitempty"`
	Price       float64  `json:"price"`
	SalePrice   *float64 `json:"sale_price,omitempty"`
	Stock       int      `json:"stock"`
	SKU         string   `json:"sku,omitempty"`
	IsActive    bool     `json:"is_active,omitempty"`
	IsFeatured  bool     `json:"is_featured,omitempty"`
	IsNew       bool     `json:"is_new,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// EffectivePrice is the sale price when one is set, otherwise the price.
func (p Product) EffectivePrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// Query narrows a server-side product listing.
type Query struct {
	Category   string
	Brand      string
	MinPrice   *float64
	MaxPrice   *float64
	IsFeatured *bool
	IsNew      *bool
	Search     string
}

// Facets is the filter metadata served by /api/products/filters/.
type Facets struct {
	Brands      []FacetEntry `json:"brands"`
	Connections []FacetEntry `json:"connections"`
	PriceRanges []PriceRange `json:"price_ranges"`
}

type FacetEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

// PriceRange is a named bucket; Max nil means unbounded above.
type PriceRange struct {
	Name  string   `json:"name"`
	Min   float64  `json:"min"`
	Max   *float64 `json:"max"`
	Count int      `json:"count,omitempty"`
}
