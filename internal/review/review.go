// Package review covers product reviews: anyone can read a product's
// reviews, authenticated users write their own and can edit or delete
// only those.
package review

// Review is one rating-plus-comment on a product.
type Review struct {
	ID        int    `json:"id"`
	Product   int    `json:"product"`
	User      int    `json:"user"`
	Username  string `json:"username,omitempty"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ValidRating reports whether r is on the 1..5 scale.
func ValidRating(r int) bool { return r >= 1 && r <= 5 }
