package types

import "strings"

// ExpDateLayout is the wire format for card expiration dates.
const ExpDateLayout = "01/02/2006"

// CustomerProfile identifies a logged-in customer. It is loaded once at
// session start and discarded at logout.
type CustomerProfile struct {
	CustID    int
	FirstName string
	LastName  string
	IsAdmin   bool
}

// FullName returns the display name used on payment records.
func (p *CustomerProfile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Clone returns an independent copy of the profile.
func (p *CustomerProfile) Clone() *CustomerProfile {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// Address is a postal address. The same record serves both shipping and
// billing roles via the IsShip/IsBill flags; an address is never neither.
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
	IsShip bool
	IsBill bool
}

// Validate checks structural requirements on the address. Role flags are
// checked too: an address must be shipping, billing, or both.
func (a *Address) Validate() error {
	if strings.TrimSpace(a.Street) == "" {
		return ErrEmptyStreet
	}
	if strings.TrimSpace(a.City) == "" {
		return ErrEmptyCity
	}
	if strings.TrimSpace(a.State) == "" {
		return ErrEmptyState
	}
	if strings.TrimSpace(a.Zip) == "" {
		return ErrEmptyZip
	}
	if !a.IsShip && !a.IsBill {
		return ErrAddressNoRole
	}
	return nil
}

// Clone returns an independent copy of the address.
func (a *Address) Clone() *Address {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// CreditCard holds a customer's payment details. One default card exists per
// customer; the name on card is derived from the profile.
type CreditCard struct {
	NameOnCard     string
	ExpirationDate string // MM/dd/yyyy
	CardNum        string
	CardType       string
}

// Validate checks that the card carries the fields credit verification needs.
func (c *CreditCard) Validate() error {
	if strings.TrimSpace(c.NameOnCard) == "" {
		return ErrEmptyNameOnCard
	}
	if strings.TrimSpace(c.CardNum) == "" {
		return ErrEmptyCardNum
	}
	if strings.TrimSpace(c.ExpirationDate) == "" {
		return ErrEmptyExpiration
	}
	return nil
}

// Clone returns an independent copy of the card.
func (c *CreditCard) Clone() *CreditCard {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
