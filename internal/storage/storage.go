package storage

import (
	"context"
	"os"
	"time"

	"github.com/dshills/storefront/pkg/types"
)

// AccountsStore defines the data-access contract for the accounts database:
// customer profiles, alternate addresses, payment info, orders, and saved
// shopping carts.
type AccountsStore interface {
	// Customer operations
	CreateCustomer(ctx context.Context, rec *CustomerRecord) error
	GetCustomerProfile(ctx context.Context, custID int) (*types.CustomerProfile, error)

	// Address operations
	GetDefaultShipAddress(ctx context.Context, custID int) (*types.Address, error)
	GetDefaultBillAddress(ctx context.Context, custID int) (*types.Address, error)
	ListAddresses(ctx context.Context, custID int) ([]types.Address, error)
	SaveAddress(ctx context.Context, custID int, addr *types.Address) (int, error)

	// Payment operations
	GetDefaultPaymentInfo(ctx context.Context, profile *types.CustomerProfile) (*types.CreditCard, error)
	SavePaymentInfo(ctx context.Context, custID int, cc *types.CreditCard) (int, error)

	// Order operations
	ListOrderIDs(ctx context.Context, custID int) ([]int, error)
	GetOrder(ctx context.Context, orderID int) (*types.Order, error)
	ListOrderItems(ctx context.Context, orderID int) ([]types.OrderItem, error)
	CreateOrder(ctx context.Context, custID int, order *types.Order) (int, error)

	// Saved-cart operations
	SaveCart(ctx context.Context, custID int, cart *types.ShoppingCart) (int, error)
	GetSavedCart(ctx context.Context, custID int) (*types.ShoppingCart, error)

	Close() error
}

// ProductsStore defines the data-access contract for the products database:
// catalogs and products.
type ProductsStore interface {
	// Product operations
	ListProducts(ctx context.Context) ([]types.Product, error)
	GetProduct(ctx context.Context, productID int) (*types.Product, error)
	ListProductsByCatalog(ctx context.Context, catalogID int) ([]types.Product, error)
	SaveProduct(ctx context.Context, product *types.Product) (int, error)
	DeleteProduct(ctx context.Context, productID int) (bool, error)

	// Catalog operations
	ListCatalogs(ctx context.Context) ([]types.Catalog, error)
	GetCatalogName(ctx context.Context, catalogID int) (string, error)
	SaveCatalog(ctx context.Context, name string) (int, error)
	DeleteCatalog(ctx context.Context, catalogID int) (bool, error)

	Close() error
}

// CustomerRecord is the full Customer row, including the embedded default
// ship/bill address columns. Used for account creation and fixtures.
type CustomerRecord struct {
	CustID    int
	FirstName string
	LastName  string

	DefaultShip types.Address
	DefaultBill types.Address
}

// Environment variables consulted by ConfigFromEnv.
const (
	EnvAccountsDB   = "STOREFRONT_ACCOUNTS_DB"
	EnvProductsDB   = "STOREFRONT_PRODUCTS_DB"
	EnvQueryTimeout = "STOREFRONT_QUERY_TIMEOUT"
)

// DefaultQueryTimeout bounds every individual database call.
const DefaultQueryTimeout = 5 * time.Second

// Config carries the storage settings for both logical databases.
type Config struct {
	AccountsPath string
	ProductsPath string

	// QueryTimeout is applied to each database call. Zero disables the
	// per-call timeout (caller context still governs cancellation).
	QueryTimeout time.Duration

	// Retry governs bounded retry with backoff for read-only operations.
	// Mutations are never retried.
	Retry RetryConfig
}

// ConfigFromEnv builds a Config from environment variables, falling back to
// local database files and default timeouts.
func ConfigFromEnv() Config {
	cfg := Config{
		AccountsPath: os.Getenv(EnvAccountsDB),
		ProductsPath: os.Getenv(EnvProductsDB),
		QueryTimeout: DefaultQueryTimeout,
		Retry:        DefaultRetryConfig(),
	}
	if cfg.AccountsPath == "" {
		cfg.AccountsPath = "accounts.db"
	}
	if cfg.ProductsPath == "" {
		cfg.ProductsPath = "products.db"
	}
	if v := os.Getenv(EnvQueryTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.QueryTimeout = d
		}
	}
	return cfg
}
