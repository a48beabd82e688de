// internal/gateway/cart.go
package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/greenloop/market-client/internal/models"
)

type cartEnvelope struct {
	Message string      `json:"message,omitempty"`
	Cart    models.Cart `json:"cart"`
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart fetches the authoritative cart for the session user.
func (c *Client) GetCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// AddToCart adds a product and returns the updated authoritative cart.
func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	var envelope cartEnvelope
	req := addToCartRequest{ProductID: productID, Quantity: quantity}
	if err := c.do(ctx, http.MethodPost, "/cart/add", req, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Cart, nil
}

// UpdateCartItem sets the quantity of an existing line item.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	var envelope cartEnvelope
	req := updateQuantityRequest{Quantity: quantity}
	if err := c.do(ctx, http.MethodPut, "/cart/update/"+url.PathEscape(productID), req, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Cart, nil
}

// RemoveCartItem deletes a line item.
func (c *Client) RemoveCartItem(ctx context.Context, productID string) (*models.Cart, error) {
	var envelope cartEnvelope
	if err := c.do(ctx, http.MethodDelete, "/cart/remove/"+url.PathEscape(productID), nil, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Cart, nil
}

// ClearCart empties the cart server-side.
func (c *Client) ClearCart(ctx context.Context) (*models.Cart, error) {
	var envelope cartEnvelope
	if err := c.do(ctx, http.MethodDelete, "/cart/clear", nil, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Cart, nil
}
