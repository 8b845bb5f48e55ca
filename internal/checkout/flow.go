package checkout

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/gemkart/storefront/pkg/api"
	pkgerrors "github.com/gemkart/storefront/pkg/errors"
	"github.com/gemkart/storefront/pkg/gateway/razorpay"
	"github.com/gemkart/storefront/pkg/logger"
	"github.com/gemkart/storefront/pkg/types"
	"github.com/gemkart/storefront/pkg/validate"
)

// Backend is the slice of the API client the checkout flow drives.
type Backend interface {
	PublicCoupons(ctx context.Context) ([]types.Coupon, error)
	ListAddresses(ctx context.Context) ([]types.Address, error)
	SaveAddress(ctx context.Context, address types.Address) error
	ApplyCoupon(ctx context.Context, code string, total float64) (types.AppliedCoupon, error)
	CreateGatewayOrder(ctx context.Context, amount float64) (types.GatewayOrder, error)
	VerifyPayment(ctx context.Context, req api.VerifyPaymentRequest) (string, error)
}

// Cart is the slice of the cart store the flow needs: the current items for the
// raw total and a clear call after a verified payment.
type Cart interface {
	Items() []types.CartLine
	Clear(ctx context.Context) error
}

// Gateway is the hosted payment widget surface.
type Gateway interface {
	Load(ctx context.Context) bool
	Open(ctx context.Context, opts razorpay.CheckoutOptions) (types.PaymentConfirmation, error)
}

// Navigator receives the post-payment redirect.
type Navigator interface {
	ShowOrders(ctx context.Context)
}

// NavigatorFunc adapts a function to a Navigator.
type NavigatorFunc func(ctx context.Context)

func (f NavigatorFunc) ShowOrders(ctx context.Context) { f(ctx) }

// Options carries the merchant presentation handed to the widget.
type Options struct {
	MerchantName string
	ThemeColor   string
}

// Snapshot is a consistent read of the checkout state.
type Snapshot struct {
	Coupons         []types.Coupon
	Addresses       []types.Address
	SelectedAddress *types.Address
	AppliedCoupon   *types.AppliedCoupon
}

// LoadResult reports the two independent fetches of the load stage.
type LoadResult struct {
	CouponsErr   error
	AddressesErr error
}

// Err folds both failures into one error for callers that only need a summary.
func (r LoadResult) Err() error {
	return multierr.Combine(r.CouponsErr, r.AddressesErr)
}

// Flow walks a user through checkout: load, address, optional coupon, payment.
// Stages are user-paced; within the payment stage each network call is issued
// only after the previous one resolves.
type Flow struct {
	backend   Backend
	cart      Cart
	gateway   Gateway
	navigator Navigator
	logg      *logger.Logger
	opts      Options

	mu    sync.RWMutex
	state Snapshot
}

func NewFlow(backend Backend, cart Cart, gateway Gateway, navigator Navigator, logg *logger.Logger, opts Options) *Flow {
	return &Flow{
		backend:   backend,
		cart:      cart,
		gateway:   gateway,
		navigator: navigator,
		logg:      logg,
		opts:      opts,
	}
}

// Snapshot returns the current checkout state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	snap := Snapshot{
		Coupons:   append([]types.Coupon(nil), f.state.Coupons...),
		Addresses: append([]types.Address(nil), f.state.Addresses...),
	}
	if f.state.SelectedAddress != nil {
		addr := *f.state.SelectedAddress
		snap.SelectedAddress = &addr
	}
	if f.state.AppliedCoupon != nil {
		applied := *f.state.AppliedCoupon
		snap.AppliedCoupon = &applied
	}
	return snap
}

// RawTotal is the display subtotal before any coupon.
func (f *Flow) RawTotal() float64 {
	total, _ := types.CartSubtotal(f.cart.Items()).Float64()
	return total
}

// PayableTotal is what the payment stage charges: the server's post-discount
// total when a coupon is applied, the raw subtotal otherwise.
func (f *Flow) PayableTotal() float64 {
	f.mu.RLock()
	applied := f.state.AppliedCoupon
	f.mu.RUnlock()
	if applied != nil {
		return applied.TotalAfterDiscount
	}
	return f.RawTotal()
}

// Load fetches available coupons and saved addresses concurrently. The two
// fetches fail independently; one failing does not block the other.
func (f *Flow) Load(ctx context.Context) LoadResult {
	if f.logg != nil {
		ctx = f.logg.WithOperation(ctx, "checkout.load")
		f.logg.Debug(ctx, "pending")
	}

	var result LoadResult
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		coupons, err := f.backend.PublicCoupons(ctx)
		if err != nil {
			result.CouponsErr = err
			return
		}
		f.mu.Lock()
		f.state.Coupons = coupons
		f.mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		addresses, err := f.backend.ListAddresses(ctx)
		if err != nil {
			result.AddressesErr = err
			return
		}
		f.mu.Lock()
		f.state.Addresses = addresses
		f.mu.Unlock()
	}()

	wg.Wait()

	if f.logg != nil {
		if err := result.Err(); err != nil {
			f.logg.Warn(f.logg.WithField(ctx, "error", err.Error()), "partial load")
		} else {
			f.logg.Info(ctx, "fulfilled")
		}
	}
	return result
}

// SelectAddress marks a shipping address for this checkout. The choice stays
// local until payment verification submits it.
func (f *Flow) SelectAddress(address types.Address) error {
	if address.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	f.mu.Lock()
	f.state.SelectedAddress = &address
	f.mu.Unlock()
	return nil
}

// SaveAddress persists a new address server-side and re-fetches the list so the
// local copy reflects what the server stored.
func (f *Flow) SaveAddress(ctx context.Context, address types.Address) error {
	if err := validate.Struct(address); err != nil {
		return err
	}

	if f.logg != nil {
		ctx = f.logg.WithOperation(ctx, "checkout.save_address")
	}
	if err := f.backend.SaveAddress(ctx, address); err != nil {
		if f.logg != nil {
			f.logg.Error(ctx, "rejected", err)
		}
		return err
	}

	addresses, err := f.backend.ListAddresses(ctx)
	if err != nil {
		if f.logg != nil {
			f.logg.Error(ctx, "saved but refresh failed", err)
		}
		return err
	}

	f.mu.Lock()
	f.state.Addresses = addresses
	f.mu.Unlock()
	if f.logg != nil {
		f.logg.Info(ctx, "fulfilled")
	}
	return nil
}

// ApplyCoupon validates the code server-side against the raw total. A valid
// code overwrites any previously applied one; an invalid code leaves the
// current total untouched and surfaces the server's error.
func (f *Flow) ApplyCoupon(ctx context.Context, code string) error {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "enter or select a coupon")
	}

	if f.logg != nil {
		ctx = f.logg.WithOperation(f.logg.WithField(ctx, "coupon", trimmed), "checkout.apply_coupon")
	}
	applied, err := f.backend.ApplyCoupon(ctx, trimmed, f.RawTotal())
	if err != nil {
		if f.logg != nil {
			f.logg.Error(ctx, "rejected", err)
		}
		return err
	}

	f.mu.Lock()
	f.state.AppliedCoupon = &applied
	f.mu.Unlock()
	if f.logg != nil {
		f.logg.Info(ctx, "fulfilled")
	}
	return nil
}

// RemoveCoupon drops the applied coupon locally, restoring the raw total.
func (f *Flow) RemoveCoupon() {
	f.mu.Lock()
	f.state.AppliedCoupon = nil
	f.mu.Unlock()
}

// Pay runs the payment stage end to end: gateway order creation, widget load
// and open, then server-side verification. A missing address selection fails
// here, before any network call. After a verified payment the cart is cleared
// and the navigator moves to the order list.
//
// A payment that succeeds at the gateway but fails verification is surfaced as
// an error with no automatic retry; reconciliation is a support path.
func (f *Flow) Pay(ctx context.Context) error {
	f.mu.RLock()
	selected := f.state.SelectedAddress
	applied := f.state.AppliedCoupon
	f.mu.RUnlock()

	if selected == nil {
		return pkgerrors.New(pkgerrors.CodePrecondition, "please select a shipping address")
	}

	if f.logg != nil {
		ctx = f.logg.WithOperation(ctx, "checkout.pay")
		f.logg.Debug(ctx, "pending")
	}

	if !f.gateway.Load(ctx) {
		err := pkgerrors.New(pkgerrors.CodeGateway, "payment service failed to load")
		if f.logg != nil {
			f.logg.Error(ctx, "rejected", err)
		}
		return err
	}

	order, err := f.backend.CreateGatewayOrder(ctx, f.PayableTotal())
	if err != nil {
		if f.logg != nil {
			f.logg.Error(ctx, "rejected", err)
		}
		return err
	}

	confirmation, err := f.gateway.Open(ctx, razorpay.CheckoutOptions{
		OrderID:      order.ID,
		Amount:       order.Amount,
		Currency:     order.Currency,
		MerchantName: f.opts.MerchantName,
		ThemeColor:   f.opts.ThemeColor,
	})
	if err != nil {
		if f.logg != nil {
			f.logg.Error(ctx, "rejected", err)
		}
		return err
	}

	couponCode := ""
	if applied != nil {
		couponCode = applied.Code
	}
	if _, err := f.backend.VerifyPayment(ctx, api.VerifyPaymentRequest{
		PaymentConfirmation: confirmation,
		CouponCode:          couponCode,
		Address:             *selected,
	}); err != nil {
		if f.logg != nil {
			f.logg.Error(ctx, "payment verification failed", err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeServer, err, "payment verification failed")
	}

	if err := f.cart.Clear(ctx); err != nil && f.logg != nil {
		// order is confirmed; a stale local cart corrects on next fetch
		f.logg.Warn(ctx, "cart not cleared after verified payment")
	}
	if f.logg != nil {
		f.logg.Info(ctx, "fulfilled")
	}
	if f.navigator != nil {
		f.navigator.ShowOrders(ctx)
	}
	return nil
}
