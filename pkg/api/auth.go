package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gemkart/storefront/pkg/types"
)

// RegisterRequest carries the signup form.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest carries the login form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the backend's answer to register and login.
type AuthResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body:   req,
		out:    &out,
	})
	return out, err
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   req,
		out:    &out,
	})
	return out, err
}

// Me returns the identity behind the current bearer token.
func (c *Client) Me(ctx context.Context) (types.User, error) {
	var out struct {
		User types.User `json:"user"`
	}
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/auth/me",
		out:    &out,
		authed: true,
	})
	return out.User, err
}

func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.do(ctx, call{
		method: http.MethodPut,
		path:   "/api/auth/change-password",
		body: map[string]string{
			"oldPassword": oldPassword,
			"newPassword": newPassword,
		},
		authed: true,
	})
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/forgot-password",
		body:   map[string]string{"email": email},
	})
}

func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     "/api/auth/reset-password/" + url.PathEscape(resetToken),
		endpoint: "/api/auth/reset-password",
		body:     map[string]string{"password": newPassword},
	})
}

// ListAddresses fetches the user's saved shipping addresses.
func (c *Client) ListAddresses(ctx context.Context) ([]types.Address, error) {
	var out struct {
		Addresses []types.Address `json:"addresses"`
	}
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/auth/address",
		out:    &out,
		authed: true,
	})
	return out.Addresses, err
}

// SaveAddress persists a new shipping address server-side.
func (c *Client) SaveAddress(ctx context.Context, address types.Address) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/address",
		body:   address,
		authed: true,
	})
}
