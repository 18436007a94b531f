package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerSummary is the joined customer slice shown in the order list.
type CustomerSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// OrderSummary is one row of the order list, with the customer joined in.
type OrderSummary struct {
	ID              string          `json:"id"`
	Number          string          `json:"number"`
	CreatedAt       time.Time       `json:"created_at"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	ShippingAddress string          `json:"shipping_address"`
	Tags            string          `json:"tags"`
	PaymentGateway  string          `json:"payment_gateway"`
	Customer        CustomerSummary `json:"customer"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// SaveTagsResult reports a confirmed tag save back to the caller.
type SaveTagsResult struct {
	OrderID string   `json:"order_id"`
	Tags    string   `json:"tags"`
	TagList []string `json:"tag_list"`
}
