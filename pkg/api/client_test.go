package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/gemkart/storefront/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestClientAttachesBearerToken(t *testing.T) {
	t.Parallel()

	var capturedAuth string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedAuth = req.Header.Get("Authorization")
		return jsonResponse(http.StatusOK, `{"items":[]}`), nil
	})

	client, err := NewClient("http://store.test",
		WithHTTPClient(&http.Client{Transport: rt}),
		WithTokenSource(TokenFunc(func() string { return "tok-123" })),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.GetCart(context.Background()); err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if capturedAuth != "Bearer tok-123" {
		t.Fatalf("unexpected auth header %q", capturedAuth)
	}
}

func TestClientSkipsAuthOnPublicEndpoints(t *testing.T) {
	t.Parallel()

	var capturedAuth string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedAuth = req.Header.Get("Authorization")
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	client, err := NewClient("http://store.test",
		WithHTTPClient(&http.Client{Transport: rt}),
		WithTokenSource(TokenFunc(func() string { return "tok-123" })),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.ListProducts(context.Background()); err != nil {
		t.Fatalf("list products: %v", err)
	}
	if capturedAuth != "" {
		t.Fatalf("expected no auth header, got %q", capturedAuth)
	}
}

func TestClientMapsServerErrorMessage(t *testing.T) {
	t.Parallel()

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest, `{"message":"Invalid coupon"}`), nil
	})

	client, err := NewClient("http://store.test", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.ApplyCoupon(context.Background(), "NOPE", 1000)
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}
	if typed.UserMessage() != "Invalid coupon" {
		t.Fatalf("unexpected user message %q", typed.UserMessage())
	}
}

func TestClientMapsUnauthorized(t *testing.T) {
	t.Parallel()

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"message":"token expired"}`), nil
	})

	client, err := NewClient("http://store.test", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Me(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestClientSendsCartMutationBody(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(raw, &captured); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"items":[{"product":{"id":"p1","name":"Ring","price":1000},"quantity":2}]}`), nil
	})

	client, err := NewClient("http://store.test", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	items, err := client.UpdateCartItem(context.Background(), "p1", 2)
	if err != nil {
		t.Fatalf("update cart: %v", err)
	}
	if captured["productId"] != "p1" || captured["quantity"] != float64(2) {
		t.Fatalf("unexpected payload %v", captured)
	}
	if len(items) != 1 || items[0].Product.ID != "p1" || items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestClientHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})

	client, err := NewClient("http://store.test", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.GetCart(ctx)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNetwork {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}
