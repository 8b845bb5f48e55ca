package razorpay

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/gemkart/storefront/pkg/errors"
	"github.com/gemkart/storefront/pkg/types"
)

func noopOpener(ctx context.Context, keyID string, opts CheckoutOptions) (types.PaymentConfirmation, error) {
	return types.PaymentConfirmation{
		OrderID:   opts.OrderID,
		PaymentID: "pay_1",
		Signature: "sig_1",
	}, nil
}

func TestNewWidgetValidatesKeyAgainstEnv(t *testing.T) {
	t.Parallel()

	if _, err := NewWidget("rzp_test_abc", "test", noopOpener); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewWidget("rzp_test_abc", "live", noopOpener); err == nil {
		t.Fatal("expected test key to be rejected in live env")
	}
	if _, err := NewWidget("", "test", noopOpener); err == nil {
		t.Fatal("expected empty key to be rejected")
	}
	if _, err := NewWidget("rzp_test_abc", "staging", noopOpener); err == nil {
		t.Fatal("expected unknown env to be rejected")
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	t.Parallel()

	w, err := NewWidget("rzp_test_abc", "test", noopOpener)
	if err != nil {
		t.Fatalf("new widget: %v", err)
	}

	if !w.Load(context.Background()) {
		t.Fatal("expected first load to succeed")
	}
	if !w.Load(context.Background()) {
		t.Fatal("expected repeated load to succeed")
	}
}

func TestOpenRequiresLoad(t *testing.T) {
	t.Parallel()

	w, err := NewWidget("rzp_test_abc", "test", noopOpener)
	if err != nil {
		t.Fatalf("new widget: %v", err)
	}

	_, err = w.Open(context.Background(), CheckoutOptions{OrderID: "order_1"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeGateway {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestOpenDeliversConfirmation(t *testing.T) {
	t.Parallel()

	w, err := NewWidget("rzp_test_abc", "test", noopOpener)
	if err != nil {
		t.Fatalf("new widget: %v", err)
	}
	w.Load(context.Background())

	confirmation, err := w.Open(context.Background(), CheckoutOptions{OrderID: "order_1", Amount: 80000, Currency: "INR"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if confirmation.OrderID != "order_1" || confirmation.PaymentID != "pay_1" {
		t.Fatalf("unexpected confirmation %+v", confirmation)
	}
}

func TestOpenWrapsOpenerFailure(t *testing.T) {
	t.Parallel()

	w, err := NewWidget("rzp_test_abc", "test", func(ctx context.Context, keyID string, opts CheckoutOptions) (types.PaymentConfirmation, error) {
		return types.PaymentConfirmation{}, errors.New("dismissed")
	})
	if err != nil {
		t.Fatalf("new widget: %v", err)
	}
	w.Load(context.Background())

	_, err = w.Open(context.Background(), CheckoutOptions{OrderID: "order_1"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeGateway {
		t.Fatalf("unexpected error %v", err)
	}
}
