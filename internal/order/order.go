package order

// Status enumerates the lifecycle of a placed order. Status is the only
// field that changes after creation, and only through the staff API.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Item is one (product, quantity, unit price) line of an order.
type Item struct {
	ID          int     `json:"id"`
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal,omitempty"`
}

// Order is an immutable record of a placed cart.
type Order struct {
	ID              int     `json:"id"`
	OrderNumber     string  `json:"order_number,omitempty"`
	User            string  `json:"user"`
	Items           []Item  `json:"items,omitempty"`
	Total           float64 `json:"total"`
	Status          Status  `json:"status"`
	ShippingAddress string  `json:"shipping_address,omitempty"`
	PaymentMethod   string  `json:"payment_method,omitempty"`
	CustomerEmail   string  `json:"customer_email,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
}

// CheckoutItem is the minimal (product, quantity) pair sent at checkout.
type CheckoutItem struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}
