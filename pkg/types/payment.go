package types

// GatewayOrder is the payment-gateway order descriptor minted by the backend.
// Amount is in the gateway's smallest currency unit.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentConfirmation is the signed callback payload from the gateway widget.
// The client forwards it verbatim to the verification endpoint and never
// inspects the signature itself.
type PaymentConfirmation struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}
