package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one line of a submitted order.
type OrderItem struct {
	OrderItemID int
	OrderID     int
	ProductID   int
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// LineTotal is the extended price for this line.
func (oi *OrderItem) LineTotal() decimal.Decimal {
	return oi.UnitPrice.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

// Order is a submitted order. Orders are append-only: created by submission,
// never mutated or deleted. Items are attached after the header is read.
type Order struct {
	OrderID     int
	Date        time.Time
	TotalPrice  decimal.Decimal
	ShipAddress *Address
	BillAddress *Address
	PaymentInfo *CreditCard
	Items       []OrderItem
}

// OrderItemsFromCartItems converts cart lines into order lines; the unit
// price is recovered from each line total.
func OrderItemsFromCartItems(cartItems []CartItem) []OrderItem {
	items := make([]OrderItem, 0, len(cartItems))
	for i := range cartItems {
		ci := &cartItems[i]
		items = append(items, OrderItem{
			ProductID:   ci.ProductID,
			ProductName: ci.ProductName,
			Quantity:    ci.Quantity,
			UnitPrice:   ci.UnitPrice(),
		})
	}
	return items
}
