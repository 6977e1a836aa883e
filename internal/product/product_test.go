package product

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/storefront/internal/directory"
	"github.com/dshills/storefront/internal/storage"
	"github.com/dshills/storefront/pkg/types"
)

var (
	admin    = &types.CustomerProfile{CustID: 1, FirstName: "Ada", LastName: "Admin", IsAdmin: true}
	shopper  = &types.CustomerProfile{CustID: 2, FirstName: "Sam", LastName: "Shopper"}
	testDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
)

func setupService(t *testing.T) *Service {
	cfg := storage.Config{
		ProductsPath: ":memory:",
		QueryTimeout: 5 * time.Second,
		Retry:        storage.DefaultRetryConfig(),
	}
	db, err := storage.NewProductsDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewService(directory.New(db), db)
}

func newProduct(name string, catalogID int) *types.Product {
	return &types.Product{
		Name:          name,
		Catalog:       types.Catalog{ID: catalogID},
		QuantityAvail: 10,
		UnitPrice:     decimal.RequireFromString("24.95"),
		MfgDate:       testDate,
	}
}

func TestCatalogLifecycle(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	id, err := svc.SaveNewCatalog(ctx, admin, "Games")
	require.NoError(t, err)
	assert.Greater(t, id, 0)

	// Saved exactly once.
	catalogs, err := svc.CatalogList(ctx)
	require.NoError(t, err)
	require.Len(t, catalogs, 1)
	assert.Equal(t, "Games", catalogs[0].Name)

	cat, err := svc.CatalogFromName(ctx, "Games")
	require.NoError(t, err)
	assert.Equal(t, id, cat.ID)

	deleted, err := svc.DeleteCatalog(ctx, admin, cat)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteCatalog(ctx, admin, cat)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCatalogFromName_Missing(t *testing.T) {
	svc := setupService(t)

	_, err := svc.CatalogFromName(context.Background(), "Nope")
	require.Error(t, err)
	assert.True(t, types.IsBackend(err))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestProductLifecycle(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	catID, err := svc.SaveNewCatalog(ctx, admin, "Games")
	require.NoError(t, err)

	p := newProduct("Chess Set", catID)
	id, err := svc.SaveNewProduct(ctx, admin, p)
	require.NoError(t, err)
	assert.Greater(t, id, 0)

	got, err := svc.ProductFromID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Chess Set", got.Name)
	assert.Equal(t, "Games", got.Catalog.Name)

	qty, err := svc.QuantityAvailable(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, qty)

	deleted, err := svc.DeleteProduct(ctx, admin, got)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteProduct(ctx, admin, got)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSaveNewProduct_Invalid(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	catID, err := svc.SaveNewCatalog(ctx, admin, "Games")
	require.NoError(t, err)

	p := newProduct("", catID)
	_, err = svc.SaveNewProduct(ctx, admin, p)
	require.Error(t, err)
	assert.True(t, types.IsRuleViolation(err))
	assert.ErrorIs(t, err, types.ErrEmptyProductName)
}

func TestMaintenanceRequiresAdmin(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.SaveNewCatalog(ctx, shopper, "Games")
	assert.ErrorIs(t, err, types.ErrNotAuthorized)

	_, err = svc.SaveNewCatalog(ctx, nil, "Games")
	assert.ErrorIs(t, err, types.ErrNotAuthorized)

	_, err = svc.SaveNewProduct(ctx, shopper, newProduct("Chess Set", 1))
	assert.ErrorIs(t, err, types.ErrNotAuthorized)

	_, err = svc.DeleteProduct(ctx, shopper, &types.Product{ID: 1})
	assert.ErrorIs(t, err, types.ErrNotAuthorized)

	_, err = svc.DeleteCatalog(ctx, shopper, &types.Catalog{ID: 1})
	assert.ErrorIs(t, err, types.ErrNotAuthorized)
}

func TestNameLookupNeedsRefresh(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	catID, err := svc.SaveNewCatalog(ctx, admin, "Games")
	require.NoError(t, err)

	// Warm the directory before the product exists.
	_, err = svc.ProductFromName(ctx, "Chess Set")
	require.Error(t, err)

	id, err := svc.SaveNewProduct(ctx, admin, newProduct("Chess Set", catID))
	require.NoError(t, err)

	// Name lookup still misses the stale snapshot; id lookup falls through.
	_, err = svc.ProductFromName(ctx, "Chess Set")
	assert.Error(t, err)
	byID, err := svc.ProductFromID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Chess Set", byID.Name)

	require.NoError(t, svc.RefreshProducts(ctx))

	p, err := svc.ProductFromName(ctx, "Chess Set")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)

	gotID, err := svc.ProductIDFromName(ctx, "Chess Set")
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
}

func TestProductsForCatalog(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	games, err := svc.SaveNewCatalog(ctx, admin, "Games")
	require.NoError(t, err)
	books, err := svc.SaveNewCatalog(ctx, admin, "Books")
	require.NoError(t, err)

	_, err = svc.SaveNewProduct(ctx, admin, newProduct("Chess Set", games))
	require.NoError(t, err)
	_, err = svc.SaveNewProduct(ctx, admin, newProduct("Go Primer", books))
	require.NoError(t, err)
	require.NoError(t, svc.RefreshProducts(ctx))

	products, err := svc.ProductsForCatalog(ctx, &types.Catalog{ID: games})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Chess Set", products[0].Name)
}
