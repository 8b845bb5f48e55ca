package types

import "strings"

// Address is a saved shipping address. Stored server-side per user; selection
// during checkout stays local until payment verification submits it.
type Address struct {
	Name   string `json:"name" validate:"required"`
	Street string `json:"street" validate:"required"`
	City   string `json:"city" validate:"required"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

// Equal matches addresses by street the way the checkout selection does.
func (a Address) Equal(other Address) bool {
	return strings.EqualFold(strings.TrimSpace(a.Street), strings.TrimSpace(other.Street))
}

// IsZero reports whether no address has been provided.
func (a Address) IsZero() bool {
	return a == Address{}
}
