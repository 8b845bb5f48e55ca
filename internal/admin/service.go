package admin

import (
	"context"
	"strings"

	"github.com/gemkart/storefront/internal/guard"
	"github.com/gemkart/storefront/internal/session"
	"github.com/gemkart/storefront/pkg/api"
	"github.com/gemkart/storefront/pkg/enums"
	pkgerrors "github.com/gemkart/storefront/pkg/errors"
	"github.com/gemkart/storefront/pkg/logger"
	"github.com/gemkart/storefront/pkg/types"
	"github.com/gemkart/storefront/pkg/validate"
)

// Backend is the slice of the API client the back-office drives.
type Backend interface {
	CreateProduct(ctx context.Context, input api.ProductInput) (types.Product, error)
	UpdateProduct(ctx context.Context, productID string, input api.ProductInput) (types.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	ListCoupons(ctx context.Context) ([]types.Coupon, error)
	CreateCoupon(ctx context.Context, input api.CouponInput) (types.Coupon, error)
	DeleteCoupon(ctx context.Context, couponID string) error
	ListOrders(ctx context.Context) ([]types.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) (types.Order, error)
}

// Sessions exposes the session snapshot the admin gate reads.
type Sessions interface {
	Snapshot() session.Snapshot
}

// Service is the admin back-office: products, coupons, and order management.
// Every call is gated on the administrative role locally before it reaches the
// network; the backend enforces the same rule authoritatively.
type Service struct {
	backend  Backend
	sessions Sessions
	logg     *logger.Logger
}

func NewService(backend Backend, sessions Sessions, logg *logger.Logger) *Service {
	return &Service{
		backend:  backend,
		sessions: sessions,
		logg:     logg,
	}
}

func (s *Service) gate() error {
	if guard.Admin(s.sessions.Snapshot()) != guard.Allow {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, input api.ProductInput) (types.Product, error) {
	if err := s.gate(); err != nil {
		return types.Product{}, err
	}
	if err := validate.Struct(input); err != nil {
		return types.Product{}, err
	}
	if s.logg != nil {
		ctx = s.logg.WithOperation(ctx, "admin.create_product")
	}
	return s.backend.CreateProduct(ctx, input)
}

func (s *Service) UpdateProduct(ctx context.Context, productID string, input api.ProductInput) (types.Product, error) {
	if err := s.gate(); err != nil {
		return types.Product{}, err
	}
	if strings.TrimSpace(productID) == "" {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := validate.Struct(input); err != nil {
		return types.Product{}, err
	}
	if s.logg != nil {
		ctx = s.logg.WithOperation(ctx, "admin.update_product")
	}
	return s.backend.UpdateProduct(ctx, productID, input)
}

func (s *Service) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.gate(); err != nil {
		return err
	}
	if strings.TrimSpace(productID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if s.logg != nil {
		ctx = s.logg.WithOperation(ctx, "admin.delete_product")
	}
	return s.backend.DeleteProduct(ctx, productID)
}

func (s *Service) ListCoupons(ctx context.Context) ([]types.Coupon, error) {
	if err := s.gate(); err != nil {
		return nil, err
	}
	if s.logg != nil {
		ctx = s.logg.WithOperation(ctx, "admin.list_coupons")
	}
	return s.backend.ListCoupons(ctx)
}

func (s *Service) CreateCoupon(ctx context.Context, input api.CouponInput) (types.Coupon, error) {
	if err := s.gate(); err != nil {
		return types.Coupon{}, err
	}
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	if err := validate.Struct(input); err != nil {
		return types.Coupon{}, err
	}
	if s.logg != nil {
		ctx = s.logg.WithOperation(ctx, "admin.create_coupon")
	}
	return s.backend.CreateCoupon(ctx, input)
}

func (s *Service) DeleteCoupon(ctx context.Context, couponID string) error {
	if err := s.gate(); err != nil {
		return err
	}
	if strings.TrimSpace(couponID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon id is required")
	}
	if s.logg != nil {
		ctx = s.logg.WithOperation(ctx, "admin.delete_coupon")
	}
	return s.backend.DeleteCoupon(ctx, couponID)
}

func (s *Service) ListOrders(ctx context.Context) ([]types.Order, error) {
	if err := s.gate(); err != nil {
		return nil, err
	}
	if s.logg != nil {
		ctx = s.logg.WithOperation(ctx, "admin.list_orders")
	}
	return s.backend.ListOrders(ctx)
}

func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) (types.Order, error) {
	if err := s.gate(); err != nil {
		return types.Order{}, err
	}
	if strings.TrimSpace(orderID) == "" {
		return types.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return types.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if s.logg != nil {
		ctx = s.logg.WithOperation(ctx, "admin.update_order_status")
	}
	return s.backend.UpdateOrderStatus(ctx, orderID, status)
}
