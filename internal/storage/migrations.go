package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

const (
	// CurrentSchemaVersion tracks the database schema version for both
	// logical databases.
	CurrentSchemaVersion = "1.0.0"
)

// Migration represents a database schema migration
type Migration struct {
	Version string
	Up      string
	Down    string
}

// AccountsMigrations contains the accounts database migrations in order.
var AccountsMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      accountsV1Up,
		Down:    accountsV1Down,
	},
}

// ProductsMigrations contains the products database migrations in order.
var ProductsMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      productsV1Up,
		Down:    productsV1Down,
	},
}

const accountsV1Up = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Customer table with embedded default ship/bill address columns.
-- Column names are load-bearing: they are mapped by name and must match
-- the existing accounts schema bit for bit.
CREATE TABLE IF NOT EXISTS Customer (
    custid INTEGER PRIMARY KEY AUTOINCREMENT,
    fname TEXT NOT NULL,
    lname TEXT NOT NULL,
    shipaddress1 TEXT,
    shipaddress2 TEXT,
    shipcity TEXT,
    shipstate TEXT,
    shipzipcode TEXT,
    billaddress1 TEXT,
    billaddress2 TEXT,
    billcity TEXT,
    billstate TEXT,
    billzipcode TEXT
);

-- Alternate addresses
CREATE TABLE IF NOT EXISTS altaddress (
    addressid INTEGER PRIMARY KEY AUTOINCREMENT,
    custid INTEGER NOT NULL,
    street TEXT NOT NULL,
    city TEXT NOT NULL,
    state TEXT NOT NULL,
    zip TEXT NOT NULL,
    isship BOOLEAN DEFAULT 0,
    isbill BOOLEAN DEFAULT 0,
    FOREIGN KEY (custid) REFERENCES Customer(custid) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_altaddress_cust ON altaddress(custid);

-- Alternate payment cards
CREATE TABLE IF NOT EXISTS altpayment (
    paymentid INTEGER PRIMARY KEY AUTOINCREMENT,
    custid INTEGER NOT NULL,
    expdate TEXT,
    cardtype TEXT,
    cardnum TEXT,
    FOREIGN KEY (custid) REFERENCES Customer(custid) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_altpayment_cust ON altpayment(custid);

-- Orders. Append-only: rows are inserted at submission and never updated
-- or deleted.
CREATE TABLE IF NOT EXISTS ordertbl (
    orderid INTEGER PRIMARY KEY AUTOINCREMENT,
    custid INTEGER NOT NULL,
    orderdate TEXT NOT NULL,
    totalprice REAL NOT NULL,
    shipaddress1 TEXT,
    shipcity TEXT,
    shipstate TEXT,
    shipzipcode TEXT,
    billaddress1 TEXT,
    billcity TEXT,
    billstate TEXT,
    billzipcode TEXT,
    nameoncard TEXT,
    expdate TEXT,
    cardnum TEXT,
    cardtype TEXT,
    FOREIGN KEY (custid) REFERENCES Customer(custid)
);

CREATE INDEX IF NOT EXISTS idx_ordertbl_cust ON ordertbl(custid);

CREATE TABLE IF NOT EXISTS orderitem (
    orderitemid INTEGER PRIMARY KEY AUTOINCREMENT,
    orderid INTEGER NOT NULL,
    productid INTEGER NOT NULL,
    productname TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    unitprice REAL NOT NULL,
    FOREIGN KEY (orderid) REFERENCES ordertbl(orderid) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_orderitem_order ON orderitem(orderid);

-- Saved shopping carts, one per customer
CREATE TABLE IF NOT EXISTS shopcart (
    shopcartid INTEGER PRIMARY KEY AUTOINCREMENT,
    custid INTEGER NOT NULL UNIQUE,
    shipaddress1 TEXT,
    shipcity TEXT,
    shipstate TEXT,
    shipzipcode TEXT,
    billaddress1 TEXT,
    billcity TEXT,
    billstate TEXT,
    billzipcode TEXT,
    nameoncard TEXT,
    expdate TEXT,
    cardnum TEXT,
    cardtype TEXT,
    FOREIGN KEY (custid) REFERENCES Customer(custid) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS shopcartitem (
    cartitemid INTEGER PRIMARY KEY AUTOINCREMENT,
    shopcartid INTEGER NOT NULL,
    productid INTEGER,
    productname TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    totalprice REAL NOT NULL,
    FOREIGN KEY (shopcartid) REFERENCES shopcart(shopcartid) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_shopcartitem_cart ON shopcartitem(shopcartid);
`

const accountsV1Down = `
DROP TABLE IF EXISTS shopcartitem;
DROP TABLE IF EXISTS shopcart;
DROP TABLE IF EXISTS orderitem;
DROP TABLE IF EXISTS ordertbl;
DROP TABLE IF EXISTS altpayment;
DROP TABLE IF EXISTS altaddress;
DROP TABLE IF EXISTS Customer;
DROP TABLE IF EXISTS schema_version;
`

const productsV1Up = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS CatalogType (
    catalogid INTEGER PRIMARY KEY AUTOINCREMENT,
    catalogname TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS Product (
    productid INTEGER PRIMARY KEY AUTOINCREMENT,
    catalogid INTEGER NOT NULL,
    productname TEXT NOT NULL,
    totalquantity INTEGER NOT NULL DEFAULT 0,
    priceperunit REAL NOT NULL DEFAULT 0,
    mfgdate TEXT,
    description TEXT,
    FOREIGN KEY (catalogid) REFERENCES CatalogType(catalogid)
);

CREATE INDEX IF NOT EXISTS idx_product_catalog ON Product(catalogid);
CREATE INDEX IF NOT EXISTS idx_product_name ON Product(productname);
`

const productsV1Down = `
DROP TABLE IF EXISTS Product;
DROP TABLE IF EXISTS CatalogType;
DROP TABLE IF EXISTS schema_version;
`

// ApplyMigrations runs all pending migrations from the given set
func ApplyMigrations(ctx context.Context, db *sql.DB, migrations []Migration) error {
	// Check if schema_version table exists
	var tableName string
	err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableName)

	// Parse current version (default to 0.0.0 if no migrations applied or table doesn't exist)
	var currentVersion *semver.Version
	if err == sql.ErrNoRows {
		// schema_version table doesn't exist, start from 0.0.0
		currentVersion = semver.MustParse("0.0.0")
	} else if err != nil {
		return fmt.Errorf("failed to check schema_version table: %w", err)
	} else {
		// Table exists, check current version
		var currentVersionStr string
		err = db.QueryRowContext(ctx, "SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1").Scan(&currentVersionStr)
		if err == sql.ErrNoRows || currentVersionStr == "" {
			currentVersion = semver.MustParse("0.0.0")
		} else if err != nil {
			return fmt.Errorf("failed to read schema_version: %w", err)
		} else {
			currentVersion, err = semver.NewVersion(currentVersionStr)
			if err != nil {
				return fmt.Errorf("invalid current schema version %s: %w", currentVersionStr, err)
			}
		}
	}

	// Run migrations in order
	for _, migration := range migrations {
		migrationVersion, err := semver.NewVersion(migration.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", migration.Version, err)
		}

		if !currentVersion.LessThan(migrationVersion) {
			continue // Already applied
		}

		// Execute migration
		_, err = db.ExecContext(ctx, migration.Up)
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}

		// Record migration
		_, err = db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
		}

		currentVersion = migrationVersion
	}

	return nil
}

// RollbackMigration rolls back the most recent migration from the given set
func RollbackMigration(ctx context.Context, db *sql.DB, migrations []Migration) error {
	// Get current version
	var currentVersion string
	err := db.QueryRowContext(ctx, "SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("no migrations to rollback: %w", err)
	}

	// Find migration
	var migration *Migration
	for i := range migrations {
		if migrations[i].Version == currentVersion {
			migration = &migrations[i]
			break
		}
	}

	if migration == nil {
		return fmt.Errorf("migration %s not found", currentVersion)
	}

	// Execute rollback
	_, err = db.ExecContext(ctx, migration.Down)
	if err != nil {
		return fmt.Errorf("failed to rollback migration %s: %w", currentVersion, err)
	}

	// Remove version record
	_, err = db.ExecContext(ctx, "DELETE FROM schema_version WHERE version = ?", currentVersion)
	if err != nil {
		return fmt.Errorf("failed to remove migration record %s: %w", currentVersion, err)
	}

	return nil
}
