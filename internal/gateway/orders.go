// internal/gateway/orders.go
package gateway

import (
	"context"
	"net/http"

	"github.com/greenloop/market-client/internal/models"
)

type orderEnvelope struct {
	Message string       `json:"message,omitempty"`
	Order   models.Order `json:"order"`
}

// CreateOrder creates an order from the current cart. By server
// contract the same call empties the cart.
func (c *Client) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	var envelope orderEnvelope
	if err := c.do(ctx, http.MethodPost, "/orders/create", req, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Order, nil
}

// MyOrders fetches the session user's order history.
func (c *Client) MyOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders/my-orders", nil, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}
