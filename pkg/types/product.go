package types

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MfgDateLayout is the wire format for manufacture dates in the products
// database. Column values are stored as text in this layout.
const MfgDateLayout = "01/02/2006"

// Catalog is a flat product grouping. There is no hierarchy.
type Catalog struct {
	ID   int
	Name string
}

// Clone returns an independent copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Product is a catalog entry. Products are keyed by (ID, Name) in the
// in-memory directory so lookups work by either key.
type Product struct {
	ID            int
	Name          string
	Catalog       Catalog
	QuantityAvail int
	UnitPrice     decimal.Decimal
	MfgDate       time.Time
	Description   string
}

// Validate checks the fields required before a product can be saved.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyProductName
	}
	if p.Catalog.ID <= 0 {
		return ErrMissingCatalog
	}
	if p.QuantityAvail < 0 {
		return ErrNegativeQuantity
	}
	if p.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Clone returns an independent copy of the product. Directory lookups hand
// out clones so callers cannot corrupt the shared snapshot.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
