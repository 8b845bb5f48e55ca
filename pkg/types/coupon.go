package types

import "time"

// Coupon is a publicly listed discount code.
type Coupon struct {
	ID              string    `json:"id,omitempty"`
	Code            string    `json:"code"`
	DiscountPercent float64   `json:"discount"`
	ExpiryDate      time.Time `json:"expiryDate,omitzero"`
}

// AppliedCoupon is the server's answer to a coupon application. The discount and
// post-discount total are computed server-side, never locally.
type AppliedCoupon struct {
	Code               string  `json:"code"`
	DiscountAmount     float64 `json:"discountAmount"`
	TotalAfterDiscount float64 `json:"totalAfterDiscount"`
}
