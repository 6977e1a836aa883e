package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dshills/storefront/internal/storage"
	"github.com/dshills/storefront/pkg/types"
)

// refreshTimeout bounds a reload so a shared flight cannot hang on a slow
// store.
const refreshTimeout = 30 * time.Second

// Reader is the slice of the products store the directory needs.
type Reader interface {
	ListProducts(ctx context.Context) ([]types.Product, error)
	GetProduct(ctx context.Context, productID int) (*types.Product, error)
}

// Directory holds a process-wide snapshot of all products, indexed by both
// product id and product name, so customer-facing lookups avoid repeated
// database hits. The snapshot is built lazily on first read and replaced
// wholesale by Refresh; there is no automatic expiry.
type Directory struct {
	store Reader

	mu    sync.RWMutex
	table *TwoKeyMap[int, string, types.Product] // nil until first load

	group singleflight.Group
}

// New returns a directory backed by the given products store. No database
// access happens until the first lookup or Refresh.
func New(store Reader) *Directory {
	return &Directory{store: store}
}

// Refresh forces a full reload and atomically replaces the snapshot.
// Concurrent refreshes are collapsed into one reload; readers always see
// either the old snapshot or the new one, never a partially-built one.
func (d *Directory) Refresh(ctx context.Context) error {
	_, err, _ := d.group.Do("refresh", func() (interface{}, error) {
		// The flight is shared by every caller waiting on it, so it must
		// not inherit any single caller's cancellation.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		products, err := d.store.ListProducts(loadCtx)
		if err != nil {
			return nil, err
		}

		table := NewTwoKeyMap[int, string, types.Product]()
		for i := range products {
			table.Put(products[i].ID, products[i].Name, products[i])
		}

		d.mu.Lock()
		d.table = table
		d.mu.Unlock()
		return nil, nil
	})
	return err
}

// snapshot returns the current table, loading it first if the directory is
// cold.
func (d *Directory) snapshot(ctx context.Context) (*TwoKeyMap[int, string, types.Product], error) {
	d.mu.RLock()
	table := d.table
	d.mu.RUnlock()
	if table != nil {
		return table, nil
	}

	if err := d.Refresh(ctx); err != nil {
		return nil, err
	}

	d.mu.RLock()
	table = d.table
	d.mu.RUnlock()
	return table, nil
}

// ProductByID returns the product with the given id. A snapshot miss falls
// through to the database, so products added since the last refresh are
// still found.
func (d *Directory) ProductByID(ctx context.Context, productID int) (*types.Product, error) {
	table, err := d.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if p, ok := table.ByFirst(productID); ok {
		return p.Clone(), nil
	}
	return d.store.GetProduct(ctx, productID)
}

// ProductByName returns the product with the given name, or
// storage.ErrNotFound if the directory has no such product.
func (d *Directory) ProductByName(ctx context.Context, name string) (*types.Product, error) {
	table, err := d.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if p, ok := table.BySecond(name); ok {
		return p.Clone(), nil
	}
	return nil, storage.ErrNotFound
}

// ProductIDByName resolves a product name to its id.
func (d *Directory) ProductIDByName(ctx context.Context, name string) (int, error) {
	table, err := d.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	if id, ok := table.FirstKeyOf(name); ok {
		return id, nil
	}
	return 0, storage.ErrNotFound
}

// ProductsForCatalog returns the snapshot's products belonging to the given
// catalog.
func (d *Directory) ProductsForCatalog(ctx context.Context, catalogID int) ([]types.Product, error) {
	table, err := d.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]types.Product, 0)
	for _, p := range table.Values() {
		if p.Catalog.ID == catalogID {
			products = append(products, p)
		}
	}
	return products, nil
}

// Table returns a clone of the current snapshot. Mutating the clone never
// affects the live snapshot or other clones.
func (d *Directory) Table(ctx context.Context) (*TwoKeyMap[int, string, types.Product], error) {
	table, err := d.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return table.Clone(), nil
}

// Loaded reports whether the snapshot has been built.
func (d *Directory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.table != nil
}

// IsNotFound reports whether err means "no such product" as opposed to a
// data-access failure.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
