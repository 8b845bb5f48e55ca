package validate

import (
	"testing"

	pkgerrors "github.com/gemkart/storefront/pkg/errors"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestStructReportsFieldDetails(t *testing.T) {
	t.Parallel()

	err := Struct(loginPayload{Email: "nope", Password: "x"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %v", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email detail %q", details["email"])
	}
	if details["password"] != "must be at least 6" {
		t.Fatalf("unexpected password detail %q", details["password"])
	}
}

func TestStructPassesValidPayload(t *testing.T) {
	t.Parallel()

	if err := Struct(loginPayload{Email: "a@b.co", Password: "secret1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
