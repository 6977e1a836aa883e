// Package types provides the shared domain records for the storefront.
//
// This package defines the entities exchanged between the subsystem facades
// and the storage layer: customer profiles, addresses, payment cards,
// catalogs, products, shopping carts, and orders.
//
// # Records
//
// All records are plain structs with value semantics. Records that are shared
// across goroutines (products handed out by the directory) provide Clone
// methods, and callers always receive copies:
//
//	p, err := products.ProductFromID(ctx, 42)
//	p.QuantityAvail = 0 // never visible to other callers
//
// # Money
//
// Prices are decimal values (github.com/shopspring/decimal), never floats.
// CartItem carries the line total; the per-unit price is derived:
//
//	unit := item.UnitPrice() // TotalPrice / Quantity
//
// # Error taxonomy
//
// Three failure kinds cross the business boundary:
//
//   - BackendError: a data-access failure. Wraps the driver-level cause for
//     diagnostics; callers treat it as opaque.
//   - RuleError: a business-rule validation failure. An expected, user-facing
//     outcome, not a defect.
//   - ErrNotAuthorized: a privileged operation attempted without admin access.
//
// Discriminate with errors.As / errors.Is, or the IsBackend and
// IsRuleViolation helpers:
//
//	if types.IsRuleViolation(err) {
//	    // show the message to the user
//	}
package types
