package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gemkart/storefront/pkg/types"
)

func (c *Client) ListProducts(ctx context.Context) ([]types.Product, error) {
	var out []types.Product
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/products",
		out:    &out,
	})
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, productID string) (types.Product, error) {
	var out types.Product
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/api/products/" + url.PathEscape(productID),
		endpoint: "/api/products/:id",
		out:      &out,
	})
	return out, err
}

// ProductInput is the admin create/update payload.
type ProductInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price" validate:"gt=0"`
	Images      []string `json:"images,omitempty"`
	Category    string   `json:"category,omitempty"`
	Stock       int      `json:"stock,omitempty"`
}

func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (types.Product, error) {
	var out types.Product
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/products",
		body:   input,
		out:    &out,
		authed: true,
	})
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, productID string, input ProductInput) (types.Product, error) {
	var out types.Product
	err := c.do(ctx, call{
		method:   http.MethodPut,
		path:     "/api/products/" + url.PathEscape(productID),
		endpoint: "/api/products/:id",
		body:     input,
		out:      &out,
		authed:   true,
	})
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	return c.do(ctx, call{
		method:   http.MethodDelete,
		path:     "/api/products/" + url.PathEscape(productID),
		endpoint: "/api/products/:id",
		authed:   true,
	})
}
