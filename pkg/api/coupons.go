package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gemkart/storefront/pkg/types"
)

// PublicCoupons lists the coupons shown during checkout. No auth required.
func (c *Client) PublicCoupons(ctx context.Context) ([]types.Coupon, error) {
	var out []types.Coupon
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/coupons/public",
		out:    &out,
	})
	return out, err
}

// ApplyCoupon asks the backend to validate the code against the given total.
// The discount amount and post-discount total come back server-computed.
func (c *Client) ApplyCoupon(ctx context.Context, code string, total float64) (types.AppliedCoupon, error) {
	var out types.AppliedCoupon
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/coupons/apply",
		body: map[string]any{
			"code":  code,
			"total": total,
		},
		out:    &out,
		authed: true,
	})
	return out, err
}

// CouponInput is the admin create payload.
type CouponInput struct {
	Code            string  `json:"code" validate:"required"`
	DiscountPercent float64 `json:"discount" validate:"gt=0,max=100"`
	ExpiryDate      string  `json:"expiryDate,omitempty"`
}

func (c *Client) ListCoupons(ctx context.Context) ([]types.Coupon, error) {
	var out []types.Coupon
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/coupons",
		out:    &out,
		authed: true,
	})
	return out, err
}

func (c *Client) CreateCoupon(ctx context.Context, input CouponInput) (types.Coupon, error) {
	var out types.Coupon
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/coupons",
		body:   input,
		out:    &out,
		authed: true,
	})
	return out, err
}

func (c *Client) DeleteCoupon(ctx context.Context, couponID string) error {
	return c.do(ctx, call{
		method:   http.MethodDelete,
		path:     "/api/coupons/" + url.PathEscape(couponID),
		endpoint: "/api/coupons/:id",
		authed:   true,
	})
}
