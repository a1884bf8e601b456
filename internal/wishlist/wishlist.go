// Package wishlist is the saved-for-later product list of the active user.
// Unlike the cart there is no guest wishlist and no local cache: every
// operation talks to the backend and requires a session.
package wishlist

// Item is one saved product reference.
type Item struct {
	ID      int    `json:"id"`
	Product int    `json:"product"`
	AddedAt string `json:"added_at,omitempty"`
}

// Wishlist is the user's full saved list as served by the backend.
type Wishlist struct {
	ID        int    `json:"id"`
	Items     []Item `json:"items"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Contains reports whether productID is on the list.
func (w Wishlist) Contains(productID int) bool {
	for _, it := range w.Items {
		if it.Product == productID {
			return true
		}
	}
	return false
}
