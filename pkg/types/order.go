package types

import (
	"time"

	"github.com/gemkart/storefront/pkg/enums"
)

// Order is created server-side on successful payment verification.
type Order struct {
	ID        string            `json:"id"`
	Items     []CartLine        `json:"items"`
	Total     float64           `json:"total"`
	Status    enums.OrderStatus `json:"status"`
	Address   Address           `json:"address"`
	CreatedAt time.Time         `json:"createdAt,omitzero"`
}
