package booking

import "time"

type Product struct {
	ID          string    `json:"id"`
	CategoryID  int       `json:"category_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PricePerDay float64   `json:"price_per_day"`
	Quantity    int       `json:"quantity"`
	Available   bool      `json:"available"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BookingPeriod is one rented line item. Rows created in the same checkout
// share an order id; legacy rows predate order ids and leave it empty.
// startDate/endDate field names are the serialization contract.
type BookingPeriod struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id,omitempty"`
	ProductID     string    `json:"product_id"`
	Quantity      int       `json:"quantity"`
	StartAt       time.Time `json:"startDate"`
	EndAt         time.Time `json:"endDate"`
	Status        Status    `json:"status"`
	TotalPrice    float64   `json:"total_price"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Qty returns the booked quantity, defaulting to 1 for rows stored before
// the quantity column existed.
func (b BookingPeriod) Qty() int {
	if b.Quantity < 1 {
		return 1
	}
	return b.Quantity
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// LineRequest is one requested line at checkout time.
type LineRequest struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	StartAt   time.Time `json:"startDate"`
	EndAt     time.Time `json:"endDate"`
	Notes     string    `json:"notes,omitempty"`
}

// Conflict reports a line whose requested quantity exceeded availability.
type Conflict struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}
