package types

import "github.com/shopspring/decimal"

// CartLine pairs a product with its quantity. A zero quantity never appears in a
// server response; the backend drops the line instead.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal is the display amount for one line.
func (l CartLine) LineTotal() decimal.Decimal {
	price := decimal.NewFromFloat(l.Product.Price)
	return price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSubtotal sums line totals for display. The backend remains the source of
// truth for every amount that reaches the payment gateway.
func CartSubtotal(lines []CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.LineTotal())
	}
	return sum
}
