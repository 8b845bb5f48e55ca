package api

import (
	"context"
	"net/http"

	"github.com/gemkart/storefront/pkg/types"
)

// cartResponse is the authoritative item list the backend returns after every
// cart read or mutation.
type cartResponse struct {
	Items []types.CartLine `json:"items"`
}

func (c *Client) GetCart(ctx context.Context) ([]types.CartLine, error) {
	var out cartResponse
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/cart",
		out:    &out,
		authed: true,
	})
	return out.Items, err
}

func (c *Client) AddCartItem(ctx context.Context, productID string, quantity int) ([]types.CartLine, error) {
	var out cartResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/cart",
		body: map[string]any{
			"productId": productID,
			"quantity":  quantity,
		},
		out:    &out,
		authed: true,
	})
	return out.Items, err
}

// UpdateCartItem sets the quantity for a line. Quantities at or below zero make
// the backend drop the line; the returned list reflects that.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) ([]types.CartLine, error) {
	var out cartResponse
	err := c.do(ctx, call{
		method: http.MethodPut,
		path:   "/api/cart",
		body: map[string]any{
			"productId": productID,
			"quantity":  quantity,
		},
		out:    &out,
		authed: true,
	})
	return out.Items, err
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   "/api/cart",
		authed: true,
	})
}
