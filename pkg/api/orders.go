package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gemkart/storefront/pkg/enums"
	"github.com/gemkart/storefront/pkg/types"
)

// MyOrders returns the caller's order history.
func (c *Client) MyOrders(ctx context.Context) ([]types.Order, error) {
	var out []types.Order
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/orders/myorders",
		out:    &out,
		authed: true,
	})
	return out, err
}

// ListOrders returns every order. Admin only.
func (c *Client) ListOrders(ctx context.Context) ([]types.Order, error) {
	var out []types.Order
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/orders",
		out:    &out,
		authed: true,
	})
	return out, err
}

// UpdateOrderStatus moves an order along its fulfillment lifecycle. Admin only.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) (types.Order, error) {
	var out types.Order
	err := c.do(ctx, call{
		method:   http.MethodPut,
		path:     "/api/orders/" + url.PathEscape(orderID),
		endpoint: "/api/orders/:id",
		body:     map[string]string{"status": status.String()},
		out:      &out,
		authed:   true,
	})
	return out, err
}

// CreateGatewayOrder asks the backend to mint a payment-gateway order for the
// given total. The amount here is display currency; the backend converts it.
func (c *Client) CreateGatewayOrder(ctx context.Context, amount float64) (types.GatewayOrder, error) {
	var out types.GatewayOrder
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/orders/razorpay",
		body:   map[string]any{"amount": amount},
		out:    &out,
		authed: true,
	})
	return out, err
}

// VerifyPaymentRequest is the signed confirmation plus the checkout choices the
// backend needs to finalize the order.
type VerifyPaymentRequest struct {
	types.PaymentConfirmation
	CouponCode string        `json:"couponCode,omitempty"`
	Address    types.Address `json:"address"`
}

// VerifyPayment submits the gateway confirmation for server-side verification
// and returns the backend's confirmation message.
func (c *Client) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/orders/verify",
		body:   req,
		out:    &out,
		authed: true,
	})
	return out.Message, err
}
