// Package cart manages one customer's shopping carts. Each session holds two
// carts: the live cart the customer is working in, and the saved cart, which
// mirrors the last state persisted for that customer. Saving copies live to
// saved and writes it through; promoting copies saved back over live.
package cart

import (
	"context"
	"errors"

	"github.com/dshills/storefront/internal/storage"
	"github.com/dshills/storefront/pkg/types"
)

// Store is the slice of the accounts store the cart manager needs.
type Store interface {
	SaveCart(ctx context.Context, custID int, cart *types.ShoppingCart) (int, error)
	GetSavedCart(ctx context.Context, custID int) (*types.ShoppingCart, error)
}

// Manager owns the live and saved carts for a single customer session. It is
// session-local state and is not safe for concurrent use.
type Manager struct {
	store  Store
	custID int

	live  *types.ShoppingCart
	saved *types.ShoppingCart
}

// NewManager starts a session cart manager with an empty live cart. The
// saved cart is loaded from the store; a customer with no persisted cart
// gets an empty one rather than an error.
func NewManager(ctx context.Context, store Store, custID int) (*Manager, error) {
	m := &Manager{
		store:  store,
		custID: custID,
		live:   types.NewShoppingCart(),
	}
	saved, err := store.GetSavedCart(ctx, custID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, types.NewBackendError("saved cart load", err)
		}
		saved = types.NewShoppingCart()
	}
	m.saved = saved
	return m, nil
}

// Live returns the working cart.
func (m *Manager) Live() *types.ShoppingCart { return m.live }

// Saved returns the last persisted cart state.
func (m *Manager) Saved() *types.ShoppingCart { return m.saved }

// LiveItems returns the working cart's lines.
func (m *Manager) LiveItems() []types.CartItem { return m.live.Items }

// AddItem appends a line to the live cart after validating it. A line for a
// product already in the cart merges quantities and totals.
func (m *Manager) AddItem(item types.CartItem) error {
	if err := item.Validate(); err != nil {
		return types.NewRuleError("cart", err)
	}
	for i := range m.live.Items {
		if m.live.Items[i].ProductID == item.ProductID {
			m.live.Items[i].Quantity += item.Quantity
			m.live.Items[i].TotalPrice = m.live.Items[i].TotalPrice.Add(item.TotalPrice)
			return nil
		}
	}
	m.live.Items = append(m.live.Items, item)
	return nil
}

// SetItems replaces the live cart's lines wholesale. Every line must pass
// validation or the cart is left untouched.
func (m *Manager) SetItems(items []types.CartItem) error {
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return types.NewRuleError("cart", err)
		}
	}
	m.live.Items = append([]types.CartItem(nil), items...)
	return nil
}

// RemoveItem drops the line for the given product. Removing a product that
// is not in the cart is a no-op.
func (m *Manager) RemoveItem(productID int) {
	items := m.live.Items
	for i := range items {
		if items[i].ProductID == productID {
			m.live.Items = append(items[:i], items[i+1:]...)
			return
		}
	}
}

// SetShipAddress sets the live cart's shipping address after validation.
func (m *Manager) SetShipAddress(addr *types.Address) error {
	if addr == nil {
		return types.NewRuleError("cart", types.ErrMissingShipAddress)
	}
	if err := addr.Validate(); err != nil {
		return types.NewRuleError("cart", err)
	}
	m.live.ShipAddress = addr.Clone()
	return nil
}

// SetBillAddress sets the live cart's billing address after validation.
func (m *Manager) SetBillAddress(addr *types.Address) error {
	if addr == nil {
		return types.NewRuleError("cart", types.ErrMissingBillAddress)
	}
	if err := addr.Validate(); err != nil {
		return types.NewRuleError("cart", err)
	}
	m.live.BillAddress = addr.Clone()
	return nil
}

// SetPaymentInfo sets the live cart's payment details after validation.
func (m *Manager) SetPaymentInfo(cc *types.CreditCard) error {
	if cc == nil {
		return types.NewRuleError("cart", types.ErrMissingPayment)
	}
	if err := cc.Validate(); err != nil {
		return types.NewRuleError("cart", err)
	}
	m.live.PaymentInfo = cc.Clone()
	return nil
}

// SaveLive persists the live cart as the customer's saved cart, replacing
// whatever was saved before, and updates the in-session saved copy.
func (m *Manager) SaveLive(ctx context.Context) error {
	if _, err := m.store.SaveCart(ctx, m.custID, m.live); err != nil {
		return types.NewBackendError("cart save", err)
	}
	m.saved = m.live.Clone()
	return nil
}

// PromoteSaved replaces the live cart with a copy of the saved cart. The
// saved copy is untouched, so promoting is repeatable.
func (m *Manager) PromoteSaved() {
	m.live = m.saved.Clone()
}

// ClearLive discards the working cart and starts a fresh one. The saved cart
// is unaffected.
func (m *Manager) ClearLive() {
	m.live = types.NewShoppingCart()
}
