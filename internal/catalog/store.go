package catalog

import (
	"context"
	"strings"
	"sync"

	pkgerrors "github.com/gemkart/storefront/pkg/errors"
	"github.com/gemkart/storefront/pkg/logger"
	"github.com/gemkart/storefront/pkg/types"
)

// Backend is the slice of the API client the catalog store drives.
type Backend interface {
	ListProducts(ctx context.Context) ([]types.Product, error)
	GetProduct(ctx context.Context, productID string) (types.Product, error)
}

// Snapshot is a consistent read of the catalog state.
type Snapshot struct {
	Products  []types.Product
	IsLoading bool
	LastError string
}

// Store caches the product listing for browsing. Like every other store, the
// server response replaces local state wholesale.
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

// Snapshot returns the current catalog state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.state
	snap.Products = append([]types.Product(nil), s.state.Products...)
	return snap
}

// Fetch loads the product listing.
func (s *Store) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.LastError = ""
	s.mu.Unlock()

	if s.logg != nil {
		ctx = s.logg.WithOperation(ctx, "catalog.fetch")
		s.logg.Debug(ctx, "pending")
	}

	products, err := s.backend.ListProducts(ctx)
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
	s.state.Products = products
	s.mu.Unlock()
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "product_count", len(products)), "fulfilled")
	}
	return nil
}

// Detail fetches a single product without touching the cached listing.
func (s *Store) Detail(ctx context.Context, productID string) (types.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if s.logg != nil {
		ctx = s.logg.WithOperation(ctx, "catalog.detail")
	}
	return s.backend.GetProduct(ctx, productID)
}
