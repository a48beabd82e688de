// internal/gateway/products.go
package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/greenloop/market-client/internal/models"
)

// CategoryAll is the sentinel category meaning "no category filter".
const CategoryAll = "all"

type productsEnvelope struct {
	Products []models.Product `json:"products"`
}

// SearchProducts runs a catalog query. An empty search term and the
// CategoryAll sentinel are both omitted from the request.
func (c *Client) SearchProducts(ctx context.Context, search, category string) ([]models.Product, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	if category != "" && category != CategoryAll {
		params.Set("category", category)
	}

	path := "/products"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var envelope productsEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}

	return envelope.Products, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/products/meta/categories", nil, &categories); err != nil {
		return nil, err
	}

	return categories, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

// CreateProduct submits a listing draft. The returned product carries
// server-computed fields (id, timestamps, view counter).
func (c *Client) CreateProduct(ctx context.Context, draft *models.ProductDraft) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodPost, "/products", draft, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

// MyProducts fetches the listings owned by the session user.
func (c *Client) MyProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products/user/my-products", nil, &products); err != nil {
		return nil, err
	}

	return products, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}
