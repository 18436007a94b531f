package shopify

import (
	"context"

	"github.com/tagdeck/backend/pkg/gid"
)

const orderUpdateMutation = `
mutation UpdateOrder($input: OrderInput!) {
  orderUpdate(input: $input) {
    order {
      id
      tags
    }
    userErrors {
      message
      field
    }
  }
}`

// UpdatedOrder is the order slice returned by the orderUpdate mutation.
// ID is a fully-qualified global identifier; Tags come back as a sequence.
type UpdatedOrder struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

// UserError is a field-level rejection reported by the remote platform.
type UserError struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

type orderUpdatePayload struct {
	OrderUpdate struct {
		Order      *UpdatedOrder `json:"order"`
		UserErrors []UserError   `json:"userErrors"`
	} `json:"orderUpdate"`
}

// UpdateOrderTags replaces an order's tag set on the remote platform. The
// order id is a bare external id; the wire-form tag string is sent verbatim.
// User errors come back as a value, not an error: the caller decides how to
// surface them while keeping the edit session open.
func (c *Client) UpdateOrderTags(ctx context.Context, orderID, tagsWire string) (*UpdatedOrder, []UserError, error) {
	c.log(ctx, "request", "order_update", map[string]any{"order_id": orderID})

	var payload orderUpdatePayload
	err := c.execute(ctx, orderUpdateMutation, map[string]any{
		"input": map[string]any{
			"id":   gid.Order(orderID),
			"tags": tagsWire,
		},
	}, &payload)
	if err != nil {
		c.log(ctx, "error", "order_update", map[string]any{"error": err.Error()})
		return nil, nil, err
	}

	if len(payload.OrderUpdate.UserErrors) > 0 {
		c.log(ctx, "response", "order_update", map[string]any{
			"user_errors": len(payload.OrderUpdate.UserErrors),
		})
		return nil, payload.OrderUpdate.UserErrors, nil
	}

	c.log(ctx, "response", "order_update", map[string]any{"order_id": orderID})
	return payload.OrderUpdate.Order, nil, nil
}
