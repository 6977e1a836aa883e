// Package order assembles order history and submits new orders. History is
// built in three steps: the customer's order ids, then each header, then each
// header's items. Per-order assembly runs concurrently and fails fast; a
// single failed order aborts the whole history rather than returning a
// partial list.
package order

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/storefront/pkg/types"
)

// Store is the slice of the accounts store order assembly needs.
type Store interface {
	ListOrderIDs(ctx context.Context, custID int) ([]int, error)
	GetOrder(ctx context.Context, orderID int) (*types.Order, error)
	ListOrderItems(ctx context.Context, orderID int) ([]types.OrderItem, error)
	CreateOrder(ctx context.Context, custID int, order *types.Order) (int, error)
}

// Service assembles and submits orders for one storefront.
type Service struct {
	store Store

	// Now stamps submitted orders. Overridable for tests.
	Now func() time.Time
}

// NewService builds the order service over the accounts store.
func NewService(store Store) *Service {
	return &Service{store: store, Now: time.Now}
}

// History returns every order the customer has placed, items attached,
// ordered by order id. Any failure while assembling any order aborts the
// whole call.
func (s *Service) History(ctx context.Context, custID int) ([]types.Order, error) {
	ids, err := s.store.ListOrderIDs(ctx, custID)
	if err != nil {
		return nil, types.NewBackendError("order history", err)
	}

	orders := make([]types.Order, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, orderID := range ids {
		i, orderID := i, orderID
		g.Go(func() error {
			o, err := s.assemble(gctx, orderID)
			if err != nil {
				return err
			}
			orders[i] = *o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, types.NewBackendError("order history", err)
	}
	return orders, nil
}

// assemble reads one order header and attaches its items.
func (s *Service) assemble(ctx context.Context, orderID int) (*types.Order, error) {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListOrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// Submit turns a checked-out cart into a persisted order and returns the
// generated order id. The cart must already carry its ship address, bill
// address, and payment info; submission validates them and every line.
func (s *Service) Submit(ctx context.Context, custID int, cart *types.ShoppingCart) (int, error) {
	if err := validateCheckout(cart); err != nil {
		return 0, err
	}

	o := &types.Order{
		Date:        s.Now(),
		TotalPrice:  cart.Total(),
		ShipAddress: cart.ShipAddress.Clone(),
		BillAddress: cart.BillAddress.Clone(),
		PaymentInfo: cart.PaymentInfo.Clone(),
		Items:       types.OrderItemsFromCartItems(cart.Items),
	}
	id, err := s.store.CreateOrder(ctx, custID, o)
	if err != nil {
		return 0, types.NewBackendError("order submit", err)
	}
	return id, nil
}

// validateCheckout enforces the final-order rules: a non-empty cart with
// valid lines, both addresses, and payment info present and valid.
func validateCheckout(cart *types.ShoppingCart) error {
	if cart == nil || len(cart.Items) == 0 {
		return types.NewRuleError("final order", types.ErrEmptyCart)
	}
	for i := range cart.Items {
		if err := cart.Items[i].Validate(); err != nil {
			return types.NewRuleError("final order", err)
		}
	}
	if cart.ShipAddress == nil {
		return types.NewRuleError("final order", types.ErrMissingShipAddress)
	}
	if err := cart.ShipAddress.Validate(); err != nil {
		return types.NewRuleError("final order", err)
	}
	if cart.BillAddress == nil {
		return types.NewRuleError("final order", types.ErrMissingBillAddress)
	}
	if err := cart.BillAddress.Validate(); err != nil {
		return types.NewRuleError("final order", err)
	}
	if cart.PaymentInfo == nil {
		return types.NewRuleError("final order", types.ErrMissingPayment)
	}
	if err := cart.PaymentInfo.Validate(); err != nil {
		return types.NewRuleError("final order", err)
	}
	return nil
}
