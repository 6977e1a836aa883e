package customer

import (
	"context"
	"errors"

	"github.com/dshills/storefront/internal/cart"
	"github.com/dshills/storefront/internal/credit"
	"github.com/dshills/storefront/internal/order"
	"github.com/dshills/storefront/internal/storage"
	"github.com/dshills/storefront/pkg/types"
)

// Store is the slice of the accounts store the customer session needs.
type Store interface {
	cart.Store
	order.Store

	GetCustomerProfile(ctx context.Context, custID int) (*types.CustomerProfile, error)
	GetDefaultShipAddress(ctx context.Context, custID int) (*types.Address, error)
	GetDefaultBillAddress(ctx context.Context, custID int) (*types.Address, error)
	ListAddresses(ctx context.Context, custID int) ([]types.Address, error)
	SaveAddress(ctx context.Context, custID int, addr *types.Address) (int, error)
	GetDefaultPaymentInfo(ctx context.Context, profile *types.CustomerProfile) (*types.CreditCard, error)
	SavePaymentInfo(ctx context.Context, custID int, cc *types.CreditCard) (int, error)
}

// Session is the customer subsystem facade for one logged-in customer. It
// holds the profile, default addresses, default payment, and the session's
// cart manager. Sessions are single-goroutine state; build one per login.
type Session struct {
	store    Store
	orders   *order.Service
	carts    *cart.Manager
	verifier credit.Verifier

	profile        *types.CustomerProfile
	defaultShip    *types.Address
	defaultBill    *types.Address
	defaultPayment *types.CreditCard
	history        []types.Order
}

// AdminAuthLevel is the authorization level at which a session gains
// catalog and product maintenance rights.
const AdminAuthLevel = 1

// Begin initializes a customer session: profile, default ship and bill
// addresses, default payment info, order history, and the saved cart are
// loaded up front. Missing defaults are tolerated; a customer with no stored
// payment card or no saved cart still gets a working session. Items carried
// from anonymous browsing are seeded into the live cart. The authorization
// level comes from the caller's authentication layer; AdminAuthLevel and
// above makes the session an admin.
func Begin(ctx context.Context, store Store, custID int, carried []types.CartItem, authLevel int) (*Session, error) {
	profile, err := store.GetCustomerProfile(ctx, custID)
	if err != nil {
		return nil, types.NewBackendError("session start", err)
	}
	profile.IsAdmin = authLevel >= AdminAuthLevel

	s := &Session{
		store:    store,
		orders:   order.NewService(store),
		verifier: credit.NewLocalVerifier(),
		profile:  profile,
	}

	if s.defaultShip, err = store.GetDefaultShipAddress(ctx, custID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, types.NewBackendError("session start", err)
	}
	if s.defaultBill, err = store.GetDefaultBillAddress(ctx, custID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, types.NewBackendError("session start", err)
	}
	if s.defaultPayment, err = store.GetDefaultPaymentInfo(ctx, profile); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, types.NewBackendError("session start", err)
	}

	if s.history, err = s.orders.History(ctx, custID); err != nil {
		return nil, err
	}

	s.carts, err = cart.NewManager(ctx, store, custID)
	if err != nil {
		return nil, err
	}
	for _, item := range carried {
		if err := s.carts.AddItem(item); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SetVerifier swaps the credit verifier, e.g. for a real gateway client.
func (s *Session) SetVerifier(v credit.Verifier) { s.verifier = v }

// Profile returns the logged-in customer's profile.
func (s *Session) Profile() *types.CustomerProfile { return s.profile.Clone() }

// IsAdmin reports whether this session may perform catalog and product
// maintenance.
func (s *Session) IsAdmin() bool { return s.profile.IsAdmin }

// Carts returns the session's cart manager.
func (s *Session) Carts() *cart.Manager { return s.carts }

// DefaultShipAddress returns the default shipping address, or nil when the
// account has none.
func (s *Session) DefaultShipAddress() *types.Address { return s.defaultShip.Clone() }

// DefaultBillAddress returns the default billing address, or nil when the
// account has none.
func (s *Session) DefaultBillAddress() *types.Address { return s.defaultBill.Clone() }

// DefaultPaymentInfo returns the default payment card, or nil when the
// account has none.
func (s *Session) DefaultPaymentInfo() *types.CreditCard { return s.defaultPayment.Clone() }

// AllShipAddresses returns the customer's alternate addresses flagged for
// shipping. The embedded default is a separate record, reachable only via
// DefaultShipAddress; it is never part of this list.
func (s *Session) AllShipAddresses(ctx context.Context) ([]types.Address, error) {
	return s.addressesByRole(ctx, func(a *types.Address) bool { return a.IsShip })
}

// AllBillAddresses returns the customer's alternate addresses flagged for
// billing. The embedded default is a separate record, reachable only via
// DefaultBillAddress; it is never part of this list.
func (s *Session) AllBillAddresses(ctx context.Context) ([]types.Address, error) {
	return s.addressesByRole(ctx, func(a *types.Address) bool { return a.IsBill })
}

func (s *Session) addressesByRole(ctx context.Context, keep func(*types.Address) bool) ([]types.Address, error) {
	alts, err := s.store.ListAddresses(ctx, s.profile.CustID)
	if err != nil {
		return nil, types.NewBackendError("address list", err)
	}
	out := make([]types.Address, 0, len(alts))
	for i := range alts {
		if keep(&alts[i]) {
			out = append(out, alts[i])
		}
	}
	return out, nil
}

// SaveNewAddress validates and stores an alternate address, returning its
// generated id.
func (s *Session) SaveNewAddress(ctx context.Context, addr *types.Address) (int, error) {
	if err := RunAddressRules(addr); err != nil {
		return 0, err
	}
	id, err := s.store.SaveAddress(ctx, s.profile.CustID, addr)
	if err != nil {
		return 0, types.NewBackendError("address save", err)
	}
	return id, nil
}

// SaveNewPaymentInfo validates and stores a payment card, returning its
// generated id.
func (s *Session) SaveNewPaymentInfo(ctx context.Context, cc *types.CreditCard) (int, error) {
	if err := runCardRules(cc); err != nil {
		return 0, err
	}
	id, err := s.store.SavePaymentInfo(ctx, s.profile.CustID, cc)
	if err != nil {
		return 0, types.NewBackendError("payment save", err)
	}
	return id, nil
}

// CheckCreditCard runs credit verification against the card the live cart
// will pay with. A cart with no payment info is a rule failure, not a
// declined card.
func (s *Session) CheckCreditCard(ctx context.Context) error {
	cc := s.carts.Live().PaymentInfo
	if cc == nil {
		return types.NewRuleError("payment", types.ErrMissingPayment)
	}
	return s.verifier.Verify(ctx, cc)
}

// OrderHistory returns all of this customer's orders with items attached,
// refreshing the copy loaded at session start.
func (s *Session) OrderHistory(ctx context.Context) ([]types.Order, error) {
	history, err := s.orders.History(ctx, s.profile.CustID)
	if err != nil {
		return nil, err
	}
	s.history = history
	return history, nil
}

// History returns the order history as of the last load, without another
// database round trip.
func (s *Session) History() []types.Order { return s.history }

// SubmitOrder verifies the live cart's card, submits the cart as an order,
// and clears the live cart on success.
func (s *Session) SubmitOrder(ctx context.Context) (int, error) {
	live := s.carts.Live()
	if err := s.verifier.Verify(ctx, live.PaymentInfo); err != nil {
		return 0, err
	}
	id, err := s.orders.Submit(ctx, s.profile.CustID, live)
	if err != nil {
		return 0, err
	}
	s.carts.ClearLive()
	return id, nil
}
