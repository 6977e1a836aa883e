// Package storage provides SQLite-based persistence for the storefront's
// two logical databases.
//
// The accounts database holds:
//   - Customer profiles with embedded default ship/bill addresses
//   - Alternate addresses and payment cards
//   - Orders and order line items
//   - Saved shopping carts
//
// The products database holds:
//   - Catalogs
//   - Products
//
// Column names match the existing schema exactly; every row is mapped by a
// fixed column-name-to-field mapping.
//
// # Basic Usage
//
//	cfg := storage.ConfigFromEnv()
//	accounts, err := storage.NewAccountsDB(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer accounts.Close()
//
//	profile, err := accounts.GetCustomerProfile(ctx, custID)
//	if errors.Is(err, storage.ErrNotFound) {
//	    // unknown customer: a recoverable business outcome, not a crash
//	}
//
// # Error Semantics
//
// A query returning zero rows yields ErrNotFound. Driver-level failures are
// wrapped with the failing operation's context and propagate to the caller;
// no read path ever swallows an error into a nil result.
//
// # Transactions
//
// Every mutating operation runs inside its own transaction, committed or
// rolled back on every exit path. A failed save never partially commits.
// Read operations run outside any transaction boundary.
//
// # Timeouts and Retry
//
// Each call is bounded by Config.QueryTimeout on top of the caller's
// context. Read-only operations retry transient failures with exponential
// backoff (Config.Retry); mutations never retry.
//
// # Drivers
//
// Two SQLite drivers are supported behind build tags: mattn/go-sqlite3 when
// CGO is available, modernc.org/sqlite otherwise. See build_cgo.go and
// build_purego.go.
package storage
