package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gemkart/storefront/internal/admin"
	"github.com/gemkart/storefront/internal/cart"
	"github.com/gemkart/storefront/internal/catalog"
	"github.com/gemkart/storefront/internal/checkout"
	"github.com/gemkart/storefront/internal/credstore"
	"github.com/gemkart/storefront/internal/orders"
	"github.com/gemkart/storefront/internal/session"
	"github.com/gemkart/storefront/pkg/api"
	"github.com/gemkart/storefront/pkg/config"
	"github.com/gemkart/storefront/pkg/enums"
	"github.com/gemkart/storefront/pkg/gateway/razorpay"
	"github.com/gemkart/storefront/pkg/logger"
	"github.com/gemkart/storefront/pkg/metrics"
	"github.com/gemkart/storefront/pkg/types"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Debug(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	ctx := context.Background()

	creds, err := credstore.Open(ctx, cfg.CredDB, logg)
	if err != nil {
		logg.Error(ctx, "failed to open credential store", err)
		os.Exit(1)
	}
	defer func() {
		if err := creds.Close(); err != nil {
			logg.Error(ctx, "error closing credential store", err)
		}
	}()

	registry := prometheus.NewRegistry()

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.RequestTimeout}),
		api.WithTokenSource(creds),
		api.WithLogger(logg),
		api.WithMetrics(metrics.NewRequestMetrics(registry)),
	)
	if err != nil {
		logg.Error(ctx, "failed to build API client", err)
		os.Exit(1)
	}

	sessions := session.NewStore(client, creds, logg)
	cartStore := cart.NewStore(client, logg)
	catalogStore := catalog.NewStore(client, logg)
	orderStore := orders.NewStore(client, logg)
	adminSvc := admin.NewService(client, sessions, logg)

	// Without a gateway key the rest of the CLI still works; only the payment
	// stage refuses, through the widget's nil-receiver behavior.
	var widget *razorpay.Widget
	if strings.TrimSpace(cfg.Gateway.KeyID) != "" {
		widget, err = razorpay.NewWidget(cfg.Gateway.KeyID, cfg.Gateway.Environment(), consoleOpener, razorpay.WithLogger(logg))
		if err != nil {
			logg.Error(ctx, "failed to build payment widget", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "no gateway key configured, checkout payment disabled")
	}

	flow := checkout.NewFlow(client, cartStore, widget,
		checkout.NavigatorFunc(func(ctx context.Context) {
			fmt.Println("payment confirmed, see `storefront orders` for your order history")
		}),
		logg,
		checkout.Options{
			MerchantName: cfg.Checkout.MerchantName,
			ThemeColor:   cfg.Checkout.ThemeColor,
		},
	)

	app := &cli{
		sessions: sessions,
		cart:     cartStore,
		catalog:  catalogStore,
		orders:   orderStore,
		admin:    adminSvc,
		flow:     flow,
	}

	if err := app.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type cli struct {
	sessions *session.Store
	cart     *cart.Store
	catalog  *catalog.Store
	orders   *orders.Store
	admin    *admin.Service
	flow     *checkout.Flow
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	// Every command but login/register/forgot assumes an earlier session; the
	// restore is silent when no token is stored.
	if err := c.sessions.Restore(ctx); err != nil {
		return err
	}

	switch args[0] {
	case "register":
		return c.register(ctx, args[1:])
	case "login":
		return c.login(ctx, args[1:])
	case "logout":
		c.sessions.Logout(ctx)
		fmt.Println("logged out")
		return nil
	case "whoami":
		return c.whoami()
	case "products":
		return c.products(ctx, args[1:])
	case "cart":
		return c.cartCmd(ctx, args[1:])
	case "checkout":
		return c.checkout(ctx, args[1:])
	case "orders":
		return c.orderHistory(ctx)
	case "admin":
		return c.adminCmd(ctx, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Println(`usage: storefront <command>

  register <name> <email> <password>
  login <email> <password>
  logout
  whoami
  products [id]
  cart [add <productId> <qty> | set <productId> <qty> | clear]
  checkout [coupon <code> | pay]
  orders
  admin [orders | ship <orderId> <status>]`)
}

func (c *cli) register(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: register <name> <email> <password>")
	}
	if err := c.sessions.Register(ctx, api.RegisterRequest{Name: args[0], Email: args[1], Password: args[2]}); err != nil {
		return err
	}
	return c.whoami()
}

func (c *cli) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <email> <password>")
	}
	if err := c.sessions.Login(ctx, api.LoginRequest{Email: args[0], Password: args[1]}); err != nil {
		return err
	}
	return c.whoami()
}

func (c *cli) whoami() error {
	snap := c.sessions.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil {
		fmt.Println("not signed in")
		return nil
	}
	return printJSON(snap.User)
}

func (c *cli) products(ctx context.Context, args []string) error {
	if len(args) == 1 {
		product, err := c.catalog.Detail(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(product)
	}
	if err := c.catalog.Fetch(ctx); err != nil {
		return err
	}
	return printJSON(c.catalog.Snapshot().Products)
}

func (c *cli) cartCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if err := c.cart.Fetch(ctx); err != nil {
			return err
		}
		snap := c.cart.Snapshot()
		for _, line := range snap.Items {
			fmt.Printf("%s x%d  %s\n", line.Product.Name, line.Quantity, line.LineTotal().StringFixed(2))
		}
		fmt.Printf("subtotal: %s\n", c.cart.Subtotal().StringFixed(2))
		return nil
	}

	switch args[0] {
	case "add", "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: cart %s <productId> <qty>", args[0])
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("quantity must be an integer: %w", err)
		}
		if args[0] == "add" {
			return c.cart.Add(ctx, args[1], qty)
		}
		return c.cart.Update(ctx, args[1], qty)
	case "clear":
		return c.cart.Clear(ctx)
	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
}

func (c *cli) checkout(ctx context.Context, args []string) error {
	if err := c.cart.Fetch(ctx); err != nil {
		return err
	}
	if result := c.flow.Load(ctx); result.Err() != nil {
		return result.Err()
	}

	// The saved addresses come back ordered; default to the first so `pay`
	// works without an interactive selection step.
	snap := c.flow.Snapshot()
	if snap.SelectedAddress == nil && len(snap.Addresses) > 0 {
		if err := c.flow.SelectAddress(snap.Addresses[0]); err != nil {
			return err
		}
	}

	if len(args) == 0 {
		fmt.Printf("payable total: %.2f\n", c.flow.PayableTotal())
		return printJSON(c.flow.Snapshot())
	}

	switch args[0] {
	case "coupon":
		if len(args) != 2 {
			return fmt.Errorf("usage: checkout coupon <code>")
		}
		if err := c.flow.ApplyCoupon(ctx, args[1]); err != nil {
			return err
		}
		fmt.Printf("payable total: %.2f\n", c.flow.PayableTotal())
		return nil
	case "pay":
		return c.flow.Pay(ctx)
	default:
		return fmt.Errorf("unknown checkout command %q", args[0])
	}
}

func (c *cli) orderHistory(ctx context.Context) error {
	if err := c.orders.Fetch(ctx); err != nil {
		return err
	}
	return printJSON(c.orders.Snapshot().Orders)
}

func (c *cli) adminCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: admin [orders | ship <orderId> <status>]")
	}
	switch args[0] {
	case "orders":
		list, err := c.admin.ListOrders(ctx)
		if err != nil {
			return err
		}
		return printJSON(list)
	case "ship":
		if len(args) != 3 {
			return fmt.Errorf("usage: admin ship <orderId> <status>")
		}
		status, err := enums.ParseOrderStatus(args[2])
		if err != nil {
			return err
		}
		order, err := c.admin.UpdateOrderStatus(ctx, args[1], status)
		if err != nil {
			return err
		}
		return printJSON(order)
	default:
		return fmt.Errorf("unknown admin command %q", args[0])
	}
}

// consoleOpener collects the gateway confirmation over stdin. The hosted
// checkout page hands these three values back after a successful charge.
func consoleOpener(ctx context.Context, keyID string, opts razorpay.CheckoutOptions) (types.PaymentConfirmation, error) {
	fmt.Printf("%s checkout (key %s)\n", opts.MerchantName, keyID)
	fmt.Printf("order %s: %d %s\n", opts.OrderID, opts.Amount, opts.Currency)

	reader := bufio.NewReader(os.Stdin)
	paymentID, err := prompt(reader, "payment id: ")
	if err != nil {
		return types.PaymentConfirmation{}, err
	}
	signature, err := prompt(reader, "signature: ")
	if err != nil {
		return types.PaymentConfirmation{}, err
	}

	return types.PaymentConfirmation{
		OrderID:   opts.OrderID,
		PaymentID: paymentID,
		Signature: signature,
	}, nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func printJSON(value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
