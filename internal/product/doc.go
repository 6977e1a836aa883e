// Package product is the product subsystem facade. Customer-facing lookups
// resolve against the shared in-memory directory; catalog and product
// maintenance goes straight to the products store and is gated on the acting
// customer's admin flag.
//
// All failures surface as *types.BackendError with the store cause preserved,
// so callers can still discriminate not-found with errors.Is against
// storage.ErrNotFound.
package product
