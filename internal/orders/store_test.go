package orders

import (
	"context"
	"testing"

	"github.com/gemkart/storefront/pkg/enums"
	pkgerrors "github.com/gemkart/storefront/pkg/errors"
	"github.com/gemkart/storefront/pkg/types"
)

type stubBackend struct {
	orders []types.Order
	err    error
}

func (b *stubBackend) MyOrders(ctx context.Context) ([]types.Order, error) {
	return b.orders, b.err
}

func TestFetchLoadsHistory(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{orders: []types.Order{
		{ID: "o1", Total: 800, Status: enums.OrderStatusPending},
		{ID: "o2", Total: 1200, Status: enums.OrderStatusDelivered},
	}}
	store := NewStore(backend, nil)

	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	snap := store.Snapshot()
	if len(snap.Orders) != 2 || snap.Orders[1].Status != enums.OrderStatusDelivered {
		t.Fatalf("unexpected orders %+v", snap.Orders)
	}
}

func TestFetchFailureSurfacesMessage(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "please log in")}
	store := NewStore(backend, nil)

	if err := store.Fetch(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if snap := store.Snapshot(); snap.LastError != "please log in" {
		t.Fatalf("unexpected last error %q", snap.LastError)
	}
}
