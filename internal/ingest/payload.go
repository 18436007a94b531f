package ingest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/tagdeck/backend/pkg/errors"
)

// OrderWebhook is the raw order payload delivered by the remote platform.
// Numeric ids arrive as JSON numbers, so they are decoded loosely and
// stringified during normalization.
type OrderWebhook struct {
	ID                  any             `json:"id"`
	OrderNumber         any             `json:"order_number"`
	TotalPrice          string          `json:"total_price"`
	PaymentGatewayNames []string        `json:"payment_gateway_names"`
	Tags                string          `json:"tags"`
	ShippingAddress     WebhookAddress  `json:"shipping_address"`
	Customer            WebhookCustomer `json:"customer"`
}

type WebhookAddress struct {
	Address1 string `json:"address1"`
	Country  string `json:"country"`
}

type WebhookCustomer struct {
	ID        any    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// NormalizedPayload carries the typed, validated fields consumed by the
// upsert. Everything downstream of Normalize can assume ids are present.
type NormalizedPayload struct {
	OrderID         string
	OrderNumber     string
	TotalPrice      decimal.Decimal
	Tags            string
	ShippingAddress string
	PaymentGateway  string

	CustomerID    string
	CustomerName  string
	CustomerEmail string
}

// Normalize validates the raw webhook and produces the typed payload.
func Normalize(raw *OrderWebhook) (*NormalizedPayload, error) {
	if raw == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order payload required")
	}

	orderID := stringifyID(raw.ID)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id missing from payload")
	}
	customerID := stringifyID(raw.Customer.ID)
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id missing from payload")
	}

	total := decimal.Zero
	if trimmed := strings.TrimSpace(raw.TotalPrice); trimmed != "" {
		parsed, err := decimal.NewFromString(trimmed)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid total price").
				WithDetails(map[string]any{"total_price": raw.TotalPrice})
		}
		total = parsed
	}

	gateway := ""
	if len(raw.PaymentGatewayNames) > 0 {
		gateway = raw.PaymentGatewayNames[0]
	}

	return &NormalizedPayload{
		OrderID:         orderID,
		OrderNumber:     stringifyID(raw.OrderNumber),
		TotalPrice:      total,
		Tags:            raw.Tags,
		ShippingAddress: fmt.Sprintf("%s, %s", raw.ShippingAddress.Address1, raw.ShippingAddress.Country),
		PaymentGateway:  gateway,
		CustomerID:      customerID,
		CustomerName:    strings.TrimSpace(raw.Customer.FirstName + " " + raw.Customer.LastName),
		CustomerEmail:   raw.Customer.Email,
	}, nil
}

// stringifyID renders JSON numbers without a float exponent and passes
// strings through. Platform ids exceed float32 precision, so %.0f keeps the
// full digits json.Unmarshal parsed into float64.
func stringifyID(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case float64:
		return fmt.Sprintf("%.0f", value)
	case int64:
		return fmt.Sprintf("%d", value)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", value))
	}
}
