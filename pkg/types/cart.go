package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line of a shopping cart. TotalPrice is the line total, not
// the unit price; order submission derives the unit price from it.
type CartItem struct {
	ProductID   int
	ProductName string
	Quantity    int
	TotalPrice  decimal.Decimal
}

// Validate checks the invariants a cart line must hold before checkout.
func (ci *CartItem) Validate() error {
	if ci.ProductName == "" {
		return ErrEmptyProductName
	}
	if ci.Quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	if ci.TotalPrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// UnitPrice derives the per-unit price from the line total.
func (ci *CartItem) UnitPrice() decimal.Decimal {
	if ci.Quantity == 0 {
		return decimal.Zero
	}
	return ci.TotalPrice.Div(decimal.NewFromInt(int64(ci.Quantity)))
}

// ShoppingCart holds the items and checkout details for one customer. A cart
// is either live (the in-session working cart) or saved (the last persisted
// state); the cart subsystem owns that distinction.
type ShoppingCart struct {
	// CartID identifies the in-memory cart instance. Live carts exist
	// before any database row does, so identity cannot be a generated key.
	CartID uuid.UUID

	ShipAddress *Address
	BillAddress *Address
	PaymentInfo *CreditCard
	Items       []CartItem
}

// NewShoppingCart returns an empty cart with a fresh identity.
func NewShoppingCart() *ShoppingCart {
	return &ShoppingCart{CartID: uuid.New()}
}

// Total sums the line totals of all items.
func (sc *ShoppingCart) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range sc.Items {
		total = total.Add(sc.Items[i].TotalPrice)
	}
	return total
}

// Clone returns a deep copy of the cart.
func (sc *ShoppingCart) Clone() *ShoppingCart {
	if sc == nil {
		return nil
	}
	cp := &ShoppingCart{
		CartID:      sc.CartID,
		ShipAddress: sc.ShipAddress.Clone(),
		BillAddress: sc.BillAddress.Clone(),
		PaymentInfo: sc.PaymentInfo.Clone(),
	}
	if sc.Items != nil {
		cp.Items = make([]CartItem, len(sc.Items))
		copy(cp.Items, sc.Items)
	}
	return cp
}
