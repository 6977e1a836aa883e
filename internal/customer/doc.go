// Package customer is the customer subsystem facade. A Session is created at
// login and loads everything the storefront needs for that customer in one
// pass: profile, default ship and bill addresses, default payment card, and
// the saved shopping cart. From there it answers address and payment
// queries, enforces the business rules on new records, runs credit checks,
// and delegates order history and submission to the order subsystem.
//
// Sessions are per-customer, single-goroutine state. Shared concurrency
// lives below this layer, in the storage pool and the product directory.
package customer
