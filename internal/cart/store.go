package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/gemkart/storefront/pkg/errors"
	"github.com/gemkart/storefront/pkg/logger"
	"github.com/gemkart/storefront/pkg/types"
	"github.com/gemkart/storefront/pkg/validate"
)

// Backend is the slice of the API client the cart store drives. Every mutation
// returns the authoritative item list.
type Backend interface {
	GetCart(ctx context.Context) ([]types.CartLine, error)
	AddCartItem(ctx context.Context, productID string, quantity int) ([]types.CartLine, error)
	UpdateCartItem(ctx context.Context, productID string, quantity int) ([]types.CartLine, error)
	ClearCart(ctx context.Context) error
}

// Snapshot is a consistent read of the cart state.
type Snapshot struct {
	Items     []types.CartLine
	IsLoading bool
	LastError string
}

// Store holds the cart as last returned by the server. There is no optimistic
// merge: local state is only ever replaced wholesale by a server response, so a
// failed mutation leaves the previous list untouched.
type Store struct {
	backend Backend
	logg    *logger.Logger

	mu    sync.RWMutex
	state Snapshot
}

func NewStore(backend Backend, logg *logger.Logger) *Store {
	return &Store{
		backend: backend,
		logg:    logg,
	}
}

// Snapshot returns the current cart state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.state
	snap.Items = append([]types.CartLine(nil), s.state.Items...)
	return snap
}

// Items returns the visible item list.
func (s *Store) Items() []types.CartLine {
	return s.Snapshot().Items
}

// Subtotal sums line totals for display. Authoritative totals stay server-side.
func (s *Store) Subtotal() decimal.Decimal {
	return types.CartSubtotal(s.Items())
}

func (s *Store) pending(ctx context.Context, op string) context.Context {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.LastError = ""
	s.mu.Unlock()

	if s.logg != nil {
		ctx = s.logg.WithOperation(ctx, op)
		s.logg.Debug(ctx, "pending")
	}
	return ctx
}

func (s *Store) replace(ctx context.Context, items []types.CartLine) {
	s.mu.Lock()
	s.state.IsLoading = false
	s.state.Items = items
	s.mu.Unlock()

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "item_count", len(items)), "fulfilled")
	}
}

func (s *Store) rejected(ctx context.Context, err error) {
	message := pkgerrors.As(err).UserMessage()
	if message == "" {
		message = err.Error()
	}

	s.mu.Lock()
	s.state.IsLoading = false
	s.state.LastError = message
	s.mu.Unlock()

	if s.logg != nil {
		s.logg.Error(ctx, "rejected", err)
	}
}

// Fetch loads the authoritative cart.
func (s *Store) Fetch(ctx context.Context) error {
	ctx = s.pending(ctx, "cart.fetch")
	items, err := s.backend.GetCart(ctx)
	if err != nil {
		s.rejected(ctx, err)
		return err
	}
	s.replace(ctx, items)
	return nil
}

// Add puts quantity of a product into the cart.
func (s *Store) Add(ctx context.Context, productID string, quantity int) error {
	payload := struct {
		ProductID string `json:"productId" validate:"required"`
		Quantity  int    `json:"quantity" validate:"gt=0"`
	}{productID, quantity}
	if err := validate.Struct(payload); err != nil {
		return err
	}

	ctx = s.pending(ctx, "cart.add")
	items, err := s.backend.AddCartItem(ctx, productID, quantity)
	if err != nil {
		s.rejected(ctx, err)
		return err
	}
	s.replace(ctx, items)
	return nil
}

// Update sets a line's quantity. Zero or negative removes the line server-side;
// that policy belongs to the backend, the store just forwards the intent.
func (s *Store) Update(ctx context.Context, productID string, quantity int) error {
	payload := struct {
		ProductID string `json:"productId" validate:"required"`
	}{productID}
	if err := validate.Struct(payload); err != nil {
		return err
	}

	ctx = s.pending(ctx, "cart.update")
	items, err := s.backend.UpdateCartItem(ctx, productID, quantity)
	if err != nil {
		s.rejected(ctx, err)
		return err
	}
	s.replace(ctx, items)
	return nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	ctx = s.pending(ctx, "cart.clear")
	if err := s.backend.ClearCart(ctx); err != nil {
		s.rejected(ctx, err)
		return err
	}
	s.replace(ctx, nil)
	return nil
}
