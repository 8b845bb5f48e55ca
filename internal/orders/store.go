package orders

import (
	"context"
	"sync"

	pkgerrors "github.com/gemkart/storefront/pkg/errors"
	"github.com/gemkart/storefront/pkg/logger"
	"github.com/gemkart/storefront/pkg/types"
)

// Backend is the slice of the API client the order-history store drives.
type Backend interface {
	MyOrders(ctx context.Context) ([]types.Order, error)
}

// Snapshot is a consistent read of the order-history state.
type Snapshot struct {
	Orders    []types.Order
	IsLoading bool
	LastError string
}

// Store holds the user's order history as last returned by the server.
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

// Snapshot returns the current order-history state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.state
	snap.Orders = append([]types.Order(nil), s.state.Orders...)
	return snap
}

// Fetch loads the caller's orders.
func (s *Store) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.LastError = ""
	s.mu.Unlock()

	if s.logg != nil {
		ctx = s.logg.WithOperation(ctx, "orders.fetch")
		s.logg.Debug(ctx, "pending")
	}

	orders, err := s.backend.MyOrders(ctx)
	if err != nil {
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
		return err
	}

	s.mu.Lock()
	s.state.IsLoading = false
	s.state.Orders = orders
	s.mu.Unlock()
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "order_count", len(orders)), "fulfilled")
	}
	return nil
}
