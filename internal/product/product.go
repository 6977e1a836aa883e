package product

import (
	"context"
	"fmt"

	"github.com/dshills/storefront/internal/directory"
	"github.com/dshills/storefront/internal/storage"
	"github.com/dshills/storefront/pkg/types"
)

// Store is the slice of the products store the facade needs beyond what the
// directory serves.
type Store interface {
	GetProduct(ctx context.Context, productID int) (*types.Product, error)
	SaveProduct(ctx context.Context, product *types.Product) (int, error)
	DeleteProduct(ctx context.Context, productID int) (bool, error)
	ListCatalogs(ctx context.Context) ([]types.Catalog, error)
	GetCatalogName(ctx context.Context, catalogID int) (string, error)
	SaveCatalog(ctx context.Context, name string) (int, error)
	DeleteCatalog(ctx context.Context, catalogID int) (bool, error)
}

// Service is the product subsystem facade. Customer-facing lookups go
// through the shared directory; catalog and product maintenance talks to the
// store directly and is restricted to admin actors.
type Service struct {
	dir   *directory.Directory
	store Store
}

// NewService builds the facade over the shared directory and store.
func NewService(dir *directory.Directory, store Store) *Service {
	return &Service{dir: dir, store: store}
}

// Directory exposes the shared directory for session wiring.
func (s *Service) Directory() *directory.Directory {
	return s.dir
}

// ProductFromID returns the product with the given id.
func (s *Service) ProductFromID(ctx context.Context, productID int) (*types.Product, error) {
	p, err := s.dir.ProductByID(ctx, productID)
	if err != nil {
		return nil, types.NewBackendError("product lookup", err)
	}
	return p, nil
}

// ProductFromName returns the product with the given name.
func (s *Service) ProductFromName(ctx context.Context, name string) (*types.Product, error) {
	p, err := s.dir.ProductByName(ctx, name)
	if err != nil {
		return nil, types.NewBackendError("product lookup", err)
	}
	return p, nil
}

// ProductIDFromName resolves a product name to its id.
func (s *Service) ProductIDFromName(ctx context.Context, name string) (int, error) {
	id, err := s.dir.ProductIDByName(ctx, name)
	if err != nil {
		return 0, types.NewBackendError("product lookup", err)
	}
	return id, nil
}

// ProductsForCatalog returns the products belonging to the catalog.
func (s *Service) ProductsForCatalog(ctx context.Context, catalog *types.Catalog) ([]types.Product, error) {
	products, err := s.dir.ProductsForCatalog(ctx, catalog.ID)
	if err != nil {
		return nil, types.NewBackendError("product list", err)
	}
	return products, nil
}

// QuantityAvailable reports the stock on hand for a product.
func (s *Service) QuantityAvailable(ctx context.Context, productID int) (int, error) {
	p, err := s.dir.ProductByID(ctx, productID)
	if err != nil {
		return 0, types.NewBackendError("quantity lookup", err)
	}
	return p.QuantityAvail, nil
}

// RefreshProducts forces a reload of the shared directory.
func (s *Service) RefreshProducts(ctx context.Context) error {
	if err := s.dir.Refresh(ctx); err != nil {
		return types.NewBackendError("product refresh", err)
	}
	return nil
}

// CatalogList returns all catalogs.
func (s *Service) CatalogList(ctx context.Context) ([]types.Catalog, error) {
	catalogs, err := s.store.ListCatalogs(ctx)
	if err != nil {
		return nil, types.NewBackendError("catalog list", err)
	}
	return catalogs, nil
}

// CatalogFromName finds a catalog by name.
func (s *Service) CatalogFromName(ctx context.Context, name string) (*types.Catalog, error) {
	catalogs, err := s.store.ListCatalogs(ctx)
	if err != nil {
		return nil, types.NewBackendError("catalog lookup", err)
	}
	for i := range catalogs {
		if catalogs[i].Name == name {
			return catalogs[i].Clone(), nil
		}
	}
	return nil, types.NewBackendError("catalog lookup", fmt.Errorf("catalog %q: %w", name, storage.ErrNotFound))
}

// SaveNewCatalog creates a catalog and returns its generated id. Admin only.
func (s *Service) SaveNewCatalog(ctx context.Context, actor *types.CustomerProfile, name string) (int, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	id, err := s.store.SaveCatalog(ctx, name)
	if err != nil {
		return 0, types.NewBackendError("catalog save", err)
	}
	return id, nil
}

// DeleteCatalog removes a catalog. A missing catalog reports false, not an
// error. Admin only.
func (s *Service) DeleteCatalog(ctx context.Context, actor *types.CustomerProfile, catalog *types.Catalog) (bool, error) {
	if err := requireAdmin(actor); err != nil {
		return false, err
	}
	deleted, err := s.store.DeleteCatalog(ctx, catalog.ID)
	if err != nil {
		return false, types.NewBackendError("catalog delete", err)
	}
	return deleted, nil
}

// SaveNewProduct creates a product and returns its generated id. Admin only.
func (s *Service) SaveNewProduct(ctx context.Context, actor *types.CustomerProfile, product *types.Product) (int, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	if err := product.Validate(); err != nil {
		return 0, types.NewRuleError("product", err)
	}
	id, err := s.store.SaveProduct(ctx, product)
	if err != nil {
		return 0, types.NewBackendError("product save", err)
	}
	return id, nil
}

// DeleteProduct removes a product. A missing product reports false, not an
// error. Admin only.
func (s *Service) DeleteProduct(ctx context.Context, actor *types.CustomerProfile, product *types.Product) (bool, error) {
	if err := requireAdmin(actor); err != nil {
		return false, err
	}
	deleted, err := s.store.DeleteProduct(ctx, product.ID)
	if err != nil {
		return false, types.NewBackendError("product delete", err)
	}
	return deleted, nil
}

func requireAdmin(actor *types.CustomerProfile) error {
	if actor == nil || !actor.IsAdmin {
		return types.ErrNotAuthorized
	}
	return nil
}
