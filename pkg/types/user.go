package types

import "github.com/gemkart/storefront/pkg/enums"

// User is the session identity returned by the backend.
type User struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  enums.Role `json:"role"`
}

// IsAdmin reports whether the user carries the administrative role.
func (u User) IsAdmin() bool {
	return u.Role == enums.RoleAdmin
}
