package cart

import (
	"github.com/wichananm65/storefront-client/internal/storage"
)

// GuestKey is the sentinel identity for the unauthenticated cart.
const GuestKey = "guest"

// Line is one product entry in a cart. A cart holds at most one line per
// product; adding the same product again sums quantities.
type Line struct {
	ID        int      `json:"id"`
	ProductID int      `json:"product_id,omitempty"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"sale_price,omitempty"`
	Quantity  int      `json:"quantity"`
	Image     string   `json:"image,omitempty"`
	Stock     int      `json:"stock,omitempty"`
}

// serverItem is the shape of a cart entry in backend responses.
type serverItem struct {
	ID        int      `json:"id"`
	ProductID int      `json:"product_id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"sale_price,omitempty"`
	Quantity  int      `json:"quantity"`
	ImageURL  string   `json:"image_url"`
	Stock     int      `json:"stock"`
}

func fromServer(items []serverItem) []Line {
	out := make([]Line, 0, len(items))
	for _, it := range items {
		out = append(out, Line{
			ID:        it.ProductID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Category:  it.Category,
			Price:     it.Price,
			SalePrice: it.SalePrice,
			Quantity:  it.Quantity,
			Image:     it.ImageURL,
			Stock:     it.Stock,
		})
	}
	return out
}

func cartKey(identity string) string  { return "cart_" + identity }
func savedKey(username string) string { return "savedCart_" + username }

func loadCart(s storage.Store, identity string) []Line {
	var lines []Line
	if !storage.GetJSON(s, cartKey(identity), &lines) {
		return []Line{}
	}
	return lines
}

func saveCart(s storage.Store, identity string, lines []Line) {
	if err := storage.SetJSON(s, cartKey(identity), lines); err == nil {
		return
	}
	// storage write failures are non-fatal; the in-memory copy already
	// reached the caller
}

// mergeLine folds a line into lines, summing quantities on product match.
// Insertion order of first appearance is preserved.
func mergeLine(lines []Line, line Line) []Line {
	for i := range lines {
		if lines[i].ID == line.ID {
			lines[i].Quantity += line.Quantity
			if lines[i].Quantity <= 0 {
				return append(lines[:i], lines[i+1:]...)
			}
			return lines
		}
	}
	if line.Quantity <= 0 {
		return lines
	}
	return append(lines, line)
}

// Total sums price times quantity over the given lines.
func Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// Count sums quantities over the given lines.
func Count(lines []Line) int {
	var n int
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
