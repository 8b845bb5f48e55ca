package razorpay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/gemkart/storefront/pkg/errors"
	"github.com/gemkart/storefront/pkg/logger"
	"github.com/gemkart/storefront/pkg/types"
)

const (
	testEnv = "test"
	liveEnv = "live"
)

var (
	errKeyIDRequired  = errors.New("razorpay key id is required")
	errInvalidEnv     = fmt.Errorf("razorpay environment must be %q or %q", testEnv, liveEnv)
	errOpenerRequired = errors.New("razorpay opener is required")
)

// CheckoutOptions parameterizes one hosted-checkout session.
type CheckoutOptions struct {
	OrderID      string
	Amount       int64
	Currency     string
	MerchantName string
	ThemeColor   string
}

// Opener hands the checkout session to whatever surface collects the payment
// and returns the gateway's signed confirmation. The widget never sees raw
// payment credentials; only the signed result comes back.
type Opener func(ctx context.Context, keyID string, opts CheckoutOptions) (types.PaymentConfirmation, error)

// Widget models the hosted checkout: a one-time load step that resolves to a
// success flag, then per-payment open calls.
type Widget struct {
	keyID       string
	environment string
	opener      Opener
	logg        *logger.Logger

	mu     sync.Mutex
	loaded bool
}

// Option configures optional widget behavior.
type Option func(*Widget)

// WithLogger attaches a structured logger.
func WithLogger(logg *logger.Logger) Option {
	return func(w *Widget) {
		w.logg = logg
	}
}

// NewWidget validates the gateway credentials and wires the opener.
func NewWidget(keyID, environment string, opener Opener, opts ...Option) (*Widget, error) {
	env, err := normalizeEnv(environment)
	if err != nil {
		return nil, err
	}

	trimmedKey := strings.TrimSpace(keyID)
	if trimmedKey == "" {
		return nil, errKeyIDRequired
	}
	if err := validateKeyID(env, trimmedKey); err != nil {
		return nil, err
	}
	if opener == nil {
		return nil, errOpenerRequired
	}

	w := &Widget{
		keyID:       trimmedKey,
		environment: env,
		opener:      opener,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Environment reports the normalized gateway environment in use.
func (w *Widget) Environment() string {
	if w == nil {
		return ""
	}
	return w.environment
}

// Load prepares the checkout surface. Idempotent for the process lifetime:
// once it has succeeded, later calls return true without doing work again.
// A false return means the payment stage must abort.
func (w *Widget) Load(ctx context.Context) bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.loaded {
		return true
	}
	if ctx.Err() != nil {
		return false
	}
	w.loaded = true
	if w.logg != nil {
		w.logg.Debug(ctx, "razorpay checkout loaded")
	}
	return true
}

// Open runs one checkout session against the server-issued order reference and
// returns the signed confirmation. Load must have succeeded first.
func (w *Widget) Open(ctx context.Context, opts CheckoutOptions) (types.PaymentConfirmation, error) {
	if w == nil {
		return types.PaymentConfirmation{}, pkgerrors.New(pkgerrors.CodeGateway, "payment widget not configured")
	}
	w.mu.Lock()
	loaded := w.loaded
	w.mu.Unlock()
	if !loaded {
		return types.PaymentConfirmation{}, pkgerrors.New(pkgerrors.CodeGateway, "payment widget not loaded")
	}
	if strings.TrimSpace(opts.OrderID) == "" {
		return types.PaymentConfirmation{}, pkgerrors.New(pkgerrors.CodeGateway, "gateway order reference is required")
	}

	confirmation, err := w.opener(ctx, w.keyID, opts)
	if err != nil {
		return types.PaymentConfirmation{}, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "payment was not completed")
	}
	return confirmation, nil
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidEnv
	}
}

func validateKeyID(env, key string) error {
	switch env {
	case testEnv:
		if strings.HasPrefix(key, "rzp_test_") {
			return nil
		}
		return fmt.Errorf("razorpay environment %q requires a test key id (rzp_test_)", testEnv)
	case liveEnv:
		if strings.HasPrefix(key, "rzp_live_") {
			return nil
		}
		return fmt.Errorf("razorpay environment %q requires a live key id (rzp_live_)", liveEnv)
	default:
		return errInvalidEnv
	}
}
