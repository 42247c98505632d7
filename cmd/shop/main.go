// Command shop is the storefront client: it browses the catalogue, fills a
// cart and checks it out.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"skinker-shop/internal/cart"
	"skinker-shop/internal/catalog"
	"skinker-shop/internal/checkout"
	"skinker-shop/internal/config"
	"skinker-shop/internal/model"
	"skinker-shop/internal/money"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const defaultShopPhone = "573133432418"

// lineItem is one -add flag: a product ID and how many units to put in the cart.
type lineItem struct {
	productID string
	quantity  int
}

// addFlags collects repeated -add id[:qty] flags.
type addFlags []lineItem

func (a *addFlags) String() string {
	parts := make([]string, len(*a))
	for i, l := range *a {
		parts[i] = fmt.Sprintf("%s:%d", l.productID, l.quantity)
	}
	return strings.Join(parts, ",")
}

func (a *addFlags) Set(value string) error {
	item, err := parseLineItem(value)
	if err != nil {
		return err
	}
	*a = append(*a, item)
	return nil
}

func parseLineItem(value string) (lineItem, error) {
	id, qty, found := strings.Cut(strings.TrimSpace(value), ":")
	if id == "" {
		return lineItem{}, errors.New("product id is required")
	}
	if !found {
		return lineItem{productID: id, quantity: 1}, nil
	}

	n, err := strconv.Atoi(qty)
	if err != nil || n < 1 {
		return lineItem{}, fmt.Errorf("invalid quantity %q for product %s", qty, id)
	}
	return lineItem{productID: id, quantity: n}, nil
}

type options struct {
	apiURL       string
	catalogFile  string
	category     string
	list         bool
	adds         addFlags
	contact      model.Contact
	transport    string
	requireEmail bool
	shopPhone    string
	relay        checkout.RelayConfig
	logLevel     string
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: failed to read .env file: %v\n", err)
		os.Exit(1)
	}

	opts := parseFlags(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) options {
	var opts options

	fs := flag.NewFlagSet("shop", flag.ExitOnError)
	fs.StringVar(&opts.apiURL, "api", envOr("SHOP_API_URL", "http://localhost:3001"), "storefront API base URL")
	fs.StringVar(&opts.catalogFile, "catalog", "", "read products from a local catalogue file instead of the API")
	fs.StringVar(&opts.category, "category", "", "only list products of this category")
	fs.BoolVar(&opts.list, "list", false, "list products and exit")
	fs.Var(&opts.adds, "add", "add a product to the cart as id[:qty] (repeatable)")
	fs.StringVar(&opts.contact.Name, "name", "", "customer name")
	fs.StringVar(&opts.contact.Email, "email", "", "customer email")
	fs.StringVar(&opts.contact.Phone, "phone", "", "customer phone")
	fs.StringVar(&opts.transport, "transport", envOr("SHOP_TRANSPORT", "http"), "order transport: http or relay")
	fs.BoolVar(&opts.requireEmail, "require-email", false, "reject checkout without a customer email")
	fs.StringVar(&opts.shopPhone, "shop-phone", envOr("SHOP_WHATSAPP_PHONE", defaultShopPhone), "WhatsApp number that receives the order summary")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	fs.Parse(args)

	opts.relay = checkout.RelayConfig{
		Endpoint:   os.Getenv("EMAILJS_ENDPOINT"),
		ServiceID:  os.Getenv("EMAILJS_SERVICE_ID"),
		TemplateID: os.Getenv("EMAILJS_TEMPLATE_ID"),
		PublicKey:  os.Getenv("EMAILJS_PUBLIC_KEY"),
		ToEmail:    os.Getenv("EMAILJS_TO_EMAIL"),
	}

	return opts
}

func run(ctx context.Context, opts options, out, logOut io.Writer) error {
	logger := config.NewLoggerTo(config.LoggerConfig{Level: opts.logLevel, Format: "console"}, logOut)
	api := checkout.NewHTTPTransport(opts.apiURL, nil)

	products, err := loadProducts(ctx, opts, api, logger)
	if err != nil {
		return err
	}

	if opts.list || len(opts.adds) == 0 {
		printProducts(out, products)
		return nil
	}

	c, err := fillCart(products, opts.adds)
	if err != nil {
		return err
	}

	var transport checkout.Transport
	switch opts.transport {
	case "http":
		transport = api
	case "relay":
		transport = checkout.NewRelayTransport(opts.relay, nil)
	default:
		return fmt.Errorf("unknown transport %q (must be http or relay)", opts.transport)
	}

	submitter := checkout.NewSubmitter(c, transport, checkout.Options{
		RequireEmail: opts.requireEmail,
		ShopPhone:    opts.shopPhone,
	}, logger)

	conf, err := submitter.Submit(ctx, opts.contact)
	if err != nil {
		var vErr *model.ValidationError
		if errors.As(err, &vErr) {
			return errors.New(vErr.Message)
		}
		return err
	}

	fmt.Fprintln(out, conf.Message)
	if conf.OrderID != "" {
		fmt.Fprintf(out, "Orden: %s\n", conf.OrderID)
	}
	fmt.Fprintf(out, "\n%s\n\nConfirma tu pedido por WhatsApp:\n%s\n", conf.Summary, conf.WhatsAppURL)
	return nil
}

func loadProducts(ctx context.Context, opts options, api *checkout.HTTPTransport, logger zerolog.Logger) ([]model.Product, error) {
	if opts.catalogFile == "" {
		return api.Products(ctx, opts.category)
	}

	products, err := catalog.NewFileLoader(logger).Load(ctx, opts.catalogFile)
	if err != nil {
		return nil, err
	}
	if opts.category == "" {
		return products, nil
	}

	var filtered []model.Product
	for _, p := range products {
		if strings.EqualFold(p.Category, strings.TrimSpace(opts.category)) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func fillCart(products []model.Product, adds []lineItem) (*cart.Cart, error) {
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	c := cart.New()
	for _, add := range adds {
		p, ok := byID[add.productID]
		if !ok {
			return nil, fmt.Errorf("product %s not found", add.productID)
		}
		for range add.quantity {
			c.Add(p)
		}
	}
	return c, nil
}

func printProducts(out io.Writer, products []model.Product) {
	category := ""
	for _, p := range products {
		if p.Category != category {
			category = p.Category
			fmt.Fprintf(out, "\n%s\n", category)
		}
		fmt.Fprintf(out, "  [%s] %s  %s\n", p.ID, p.Name, money.Format(p.Price))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
