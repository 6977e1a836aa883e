package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dshills/storefront/pkg/types"
)

// ProductsDB implements ProductsStore over the products SQLite database.
type ProductsDB struct {
	db      *sql.DB
	timeout time.Duration
	retry   RetryConfig
}

// NewProductsDB opens the products database and applies pending migrations.
func NewProductsDB(cfg Config) (*ProductsDB, error) {
	db, err := openDatabase(cfg.ProductsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open products database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db, ProductsMigrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply products migrations: %w", err)
	}

	return &ProductsDB{db: db, timeout: cfg.QueryTimeout, retry: cfg.Retry}, nil
}

// Close closes the database connection
func (s *ProductsDB) Close() error {
	return s.db.Close()
}

// productColumns joins Product with CatalogType so each row maps to a full
// Product record in a single query.
const productColumns = `
	SELECT p.productid, p.productname, p.totalquantity, p.priceperunit,
	       p.mfgdate, p.description, p.catalogid, c.catalogname
	FROM Product p
	LEFT JOIN CatalogType c ON p.catalogid = c.catalogid
`

func scanProduct(scan func(dest ...interface{}) error) (*types.Product, error) {
	var p types.Product
	var mfgDate, description, catalogName sql.NullString

	err := scan(&p.ID, &p.Name, &p.QuantityAvail, &p.UnitPrice,
		&mfgDate, &description, &p.Catalog.ID, &catalogName)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	p.Catalog.Name = catalogName.String
	if mfgDate.Valid && mfgDate.String != "" {
		date, err := time.Parse(types.MfgDateLayout, mfgDate.String)
		if err != nil {
			return nil, fmt.Errorf("invalid mfgdate %q: %w", mfgDate.String, err)
		}
		p.MfgDate = date
	}
	return &p, nil
}

// Product operations

// ListProducts returns every product in the database. Used by the directory
// to build its snapshot.
func (s *ProductsDB) ListProducts(ctx context.Context) ([]types.Product, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return readWithRetry(ctx, s.retry, func() ([]types.Product, error) {
		return s.listProducts(ctx, productColumns)
	})
}

// ListProductsByCatalog returns the products belonging to one catalog.
func (s *ProductsDB) ListProductsByCatalog(ctx context.Context, catalogID int) ([]types.Product, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return readWithRetry(ctx, s.retry, func() ([]types.Product, error) {
		return s.listProducts(ctx, productColumns+` WHERE p.catalogid = ?`, catalogID)
	})
}

func (s *ProductsDB) listProducts(ctx context.Context, query string, args ...interface{}) ([]types.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return collectRows(rows, func(rows *sql.Rows) (types.Product, error) {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return types.Product{}, err
		}
		return *p, nil
	})
}

// GetProduct reads a single product by id.
func (s *ProductsDB) GetProduct(ctx context.Context, productID int) (*types.Product, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return readWithRetry(ctx, s.retry, func() (*types.Product, error) {
		row := s.db.QueryRowContext(ctx, productColumns+` WHERE p.productid = ?`, productID)
		p, err := scanProduct(row.Scan)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read product: %w", err)
		}
		return p, nil
	})
}

// SaveProduct inserts a new product and returns the generated product id.
// Runs in its own committed transaction.
func (s *ProductsDB) SaveProduct(ctx context.Context, product *types.Product) (int, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	query := `
		INSERT INTO Product (catalogid, productname, totalquantity, priceperunit, mfgdate, description)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	var mfgDate string
	if !product.MfgDate.IsZero() {
		mfgDate = product.MfgDate.Format(types.MfgDateLayout)
	}

	var id int
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			product.Catalog.ID, product.Name, product.QuantityAvail,
			product.UnitPrice, mfgDate, product.Description)
		if err != nil {
			return fmt.Errorf("failed to save product: %w", err)
		}
		generated, err := result.LastInsertId()
		if err != nil {
			return err
		}
		id = int(generated)
		return nil
	})
	if err == nil {
		product.ID = id
	}
	return id, err
}

// DeleteProduct removes a product. Deleting a missing product reports
// false, not an error.
func (s *ProductsDB) DeleteProduct(ctx context.Context, productID int) (bool, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	var deleted bool
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM Product WHERE productid = ?`, productID)
		if err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		deleted = affected > 0
		return nil
	})
	return deleted, err
}

// Catalog operations

// ListCatalogs returns every catalog.
func (s *ProductsDB) ListCatalogs(ctx context.Context) ([]types.Catalog, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return readWithRetry(ctx, s.retry, func() ([]types.Catalog, error) {
		query := `SELECT catalogid, catalogname FROM CatalogType ORDER BY catalogid`
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to list catalogs: %w", err)
		}
		return collectRows(rows, func(rows *sql.Rows) (types.Catalog, error) {
			var c types.Catalog
			err := rows.Scan(&c.ID, &c.Name)
			return c, err
		})
	})
}

// GetCatalogName resolves a catalog id to its name.
func (s *ProductsDB) GetCatalogName(ctx context.Context, catalogID int) (string, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return readWithRetry(ctx, s.retry, func() (string, error) {
		var name string
		err := s.db.QueryRowContext(ctx,
			`SELECT catalogname FROM CatalogType WHERE catalogid = ?`, catalogID).Scan(&name)
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		if err != nil {
			return "", fmt.Errorf("failed to read catalog name: %w", err)
		}
		return name, nil
	})
}

// SaveCatalog inserts a new catalog and returns the generated catalog id.
// Runs in its own committed transaction.
func (s *ProductsDB) SaveCatalog(ctx context.Context, name string) (int, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	var id int
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `INSERT INTO CatalogType (catalogname) VALUES (?)`, name)
		if err != nil {
			return fmt.Errorf("failed to save catalog: %w", err)
		}
		generated, err := result.LastInsertId()
		if err != nil {
			return err
		}
		id = int(generated)
		return nil
	})
	return id, err
}

// DeleteCatalog removes a catalog. Deleting a missing catalog reports
// false, not an error.
func (s *ProductsDB) DeleteCatalog(ctx context.Context, catalogID int) (bool, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	var deleted bool
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM CatalogType WHERE catalogid = ?`, catalogID)
		if err != nil {
			return fmt.Errorf("failed to delete catalog: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		deleted = affected > 0
		return nil
	})
	return deleted, err
}
