package customer

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/storefront/internal/storage"
	"github.com/dshills/storefront/pkg/types"
)

func setupStore(t *testing.T) *storage.AccountsDB {
	cfg := storage.Config{
		AccountsPath: ":memory:",
		QueryTimeout: 5 * time.Second,
		Retry:        storage.DefaultRetryConfig(),
	}
	db, err := storage.NewAccountsDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedCustomer(t *testing.T, db *storage.AccountsDB) *storage.CustomerRecord {
	rec := &storage.CustomerRecord{
		FirstName: "John",
		LastName:  "Won",
		DefaultShip: types.Address{
			Street: "100 Main St.", City: "Des Moines", State: "IA", Zip: "50309",
		},
		DefaultBill: types.Address{
			Street: "200 Oak Ave.", City: "Ames", State: "IA", Zip: "50010",
		},
	}
	require.NoError(t, db.CreateCustomer(context.Background(), rec))
	return rec
}

func beginSession(t *testing.T, db *storage.AccountsDB, custID int) *Session {
	s, err := Begin(context.Background(), db, custID, nil, 0)
	require.NoError(t, err)
	return s
}

func TestBegin_LoadsDefaults(t *testing.T) {
	db := setupStore(t)
	rec := seedCustomer(t, db)
	ctx := context.Background()

	_, err := db.SavePaymentInfo(ctx, rec.CustID, &types.CreditCard{
		ExpirationDate: "12/31/2030", CardNum: "4111111111111111", CardType: "Visa",
	})
	require.NoError(t, err)

	s := beginSession(t, db, rec.CustID)

	profile := s.Profile()
	assert.Equal(t, "John Won", profile.FullName())
	assert.False(t, s.IsAdmin())

	ship := s.DefaultShipAddress()
	require.NotNil(t, ship)
	assert.Equal(t, "100 Main St.", ship.Street)

	bill := s.DefaultBillAddress()
	require.NotNil(t, bill)
	assert.Equal(t, "200 Oak Ave.", bill.Street)

	pay := s.DefaultPaymentInfo()
	require.NotNil(t, pay)
	assert.Equal(t, "John Won", pay.NameOnCard)
	assert.Equal(t, "4111111111111111", pay.CardNum)

	assert.Empty(t, s.Carts().LiveItems())
}

func TestBegin_ToleratesMissingDefaults(t *testing.T) {
	db := setupStore(t)
	rec := seedCustomer(t, db)

	// No payment card, no saved cart. The session still starts.
	s := beginSession(t, db, rec.CustID)
	assert.Nil(t, s.DefaultPaymentInfo())
	assert.Empty(t, s.Carts().Saved().Items)
}

func TestBegin_UnknownCustomer(t *testing.T) {
	db := setupStore(t)

	_, err := Begin(context.Background(), db, 999, nil, 0)
	require.Error(t, err)
	assert.True(t, types.IsBackend(err))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBegin_CarriesAnonymousItems(t *testing.T) {
	db := setupStore(t)
	rec := seedCustomer(t, db)

	carried := []types.CartItem{
		{ProductID: 1, ProductName: "Chess Set", Quantity: 1, TotalPrice: decimal.RequireFromString("24.95")},
	}
	s, err := Begin(context.Background(), db, rec.CustID, carried, 0)
	require.NoError(t, err)
	require.Len(t, s.Carts().LiveItems(), 1)
	assert.Equal(t, "Chess Set", s.Carts().LiveItems()[0].ProductName)
}

func TestAddressesByRole(t *testing.T) {
	db := setupStore(t)
	rec := seedCustomer(t, db)
	ctx := context.Background()
	s := beginSession(t, db, rec.CustID)

	id, err := s.SaveNewAddress(ctx, &types.Address{
		Street: "1000 N 4th St.", City: "FairField", State: "Iow", Zip: "52557",
		IsShip: true,
	})
	require.NoError(t, err)
	assert.Greater(t, id, 0)

	// The embedded default ship address exists but stays out of the list;
	// only the alternate comes back.
	require.NotNil(t, s.DefaultShipAddress())
	ships, err := s.AllShipAddresses(ctx)
	require.NoError(t, err)
	require.Len(t, ships, 1)
	assert.Equal(t, "1000 N 4th St.", ships[0].Street)

	// The alternate is ship-only, so the billing list is empty even though
	// the customer has a default billing address.
	require.NotNil(t, s.DefaultBillAddress())
	bills, err := s.AllBillAddresses(ctx)
	require.NoError(t, err)
	assert.Empty(t, bills)
}

func TestAddressesByRole_NoDefaults(t *testing.T) {
	db := setupStore(t)
	ctx := context.Background()

	// A customer created with blank default addresses reads as having none.
	rec := &storage.CustomerRecord{FirstName: "Jane", LastName: "Doe"}
	require.NoError(t, db.CreateCustomer(ctx, rec))
	s := beginSession(t, db, rec.CustID)
	assert.Nil(t, s.DefaultShipAddress())
	assert.Nil(t, s.DefaultBillAddress())

	_, err := s.SaveNewAddress(ctx, &types.Address{
		Street: "1000 N 4th St.", City: "FairField", State: "Iow", Zip: "52557",
		IsShip: true,
	})
	require.NoError(t, err)

	ships, err := s.AllShipAddresses(ctx)
	require.NoError(t, err)
	require.Len(t, ships, 1)
	assert.Equal(t, "1000 N 4th St.", ships[0].Street)
	assert.Equal(t, "FairField", ships[0].City)
	assert.Equal(t, "Iow", ships[0].State)
	assert.Equal(t, "52557", ships[0].Zip)

	bills, err := s.AllBillAddresses(ctx)
	require.NoError(t, err)
	assert.Empty(t, bills)
}

func TestSaveNewAddress_Rules(t *testing.T) {
	db := setupStore(t)
	rec := seedCustomer(t, db)
	s := beginSession(t, db, rec.CustID)
	ctx := context.Background()

	_, err := s.SaveNewAddress(ctx, &types.Address{
		Street: "1000 N 4th St.", City: "FairField", State: "Iow", Zip: "52557",
	})
	require.Error(t, err)
	assert.True(t, types.IsRuleViolation(err))
	assert.ErrorIs(t, err, types.ErrAddressNoRole)

	_, err = s.SaveNewAddress(ctx, &types.Address{City: "FairField", State: "Iow", Zip: "52557", IsShip: true})
	assert.ErrorIs(t, err, types.ErrEmptyStreet)
}

func TestSaveNewPaymentInfo_Rules(t *testing.T) {
	db := setupStore(t)
	rec := seedCustomer(t, db)
	s := beginSession(t, db, rec.CustID)

	_, err := s.SaveNewPaymentInfo(context.Background(), &types.CreditCard{NameOnCard: "John Won"})
	require.Error(t, err)
	assert.True(t, types.IsRuleViolation(err))
}

func TestCheckCreditCard(t *testing.T) {
	db := setupStore(t)
	rec := seedCustomer(t, db)
	s := beginSession(t, db, rec.CustID)
	ctx := context.Background()

	// No payment on the live cart yet.
	err := s.CheckCreditCard(ctx)
	require.Error(t, err)
	assert.True(t, types.IsRuleViolation(err))
	assert.ErrorIs(t, err, types.ErrMissingPayment)

	require.NoError(t, s.Carts().SetPaymentInfo(&types.CreditCard{
		NameOnCard: "John Won", ExpirationDate: "12/31/2030",
		CardNum: "4111111111111111", CardType: "Visa",
	}))
	assert.NoError(t, s.CheckCreditCard(ctx))

	require.NoError(t, s.Carts().SetPaymentInfo(&types.CreditCard{
		NameOnCard: "John Won", ExpirationDate: "01/01/2020",
		CardNum: "4111111111111111", CardType: "Visa",
	}))
	err = s.CheckCreditCard(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrCardExpired)
}

func TestRunPaymentRules(t *testing.T) {
	card := &types.CreditCard{
		NameOnCard: "John Won", ExpirationDate: "12/31/2030",
		CardNum: "4111111111111111", CardType: "Visa",
	}
	bill := &types.Address{Street: "200 Oak Ave.", City: "Ames", State: "IA", Zip: "50010", IsBill: true}

	assert.NoError(t, RunPaymentRules(bill, card))
	assert.ErrorIs(t, RunPaymentRules(nil, card), types.ErrMissingBillAddress)

	badBill := bill.Clone()
	badBill.Zip = ""
	assert.ErrorIs(t, RunPaymentRules(badBill, card), types.ErrEmptyZip)

	assert.ErrorIs(t, RunPaymentRules(bill, &types.CreditCard{NameOnCard: "John Won"}), types.ErrEmptyCardNum)
}

func TestSubmitOrderAndHistory(t *testing.T) {
	db := setupStore(t)
	rec := seedCustomer(t, db)
	ctx := context.Background()
	s := beginSession(t, db, rec.CustID)

	carts := s.Carts()
	require.NoError(t, carts.AddItem(types.CartItem{
		ProductID: 1, ProductName: "Chess Set", Quantity: 2,
		TotalPrice: decimal.RequireFromString("49.90"),
	}))
	require.NoError(t, carts.SetShipAddress(s.DefaultShipAddress()))
	require.NoError(t, carts.SetBillAddress(s.DefaultBillAddress()))
	require.NoError(t, carts.SetPaymentInfo(&types.CreditCard{
		NameOnCard: "John Won", ExpirationDate: "12/31/2030",
		CardNum: "4111111111111111", CardType: "Visa",
	}))

	orderID, err := s.SubmitOrder(ctx)
	require.NoError(t, err)
	assert.Greater(t, orderID, 0)
	// Submission clears the live cart.
	assert.Empty(t, s.Carts().LiveItems())

	// History was preloaded at session start, before this order existed.
	assert.Empty(t, s.History())

	orders, err := s.OrderHistory(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].OrderID)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Chess Set", orders[0].Items[0].ProductName)
	assert.True(t, orders[0].TotalPrice.Equal(decimal.RequireFromString("49.90")))
	assert.Len(t, s.History(), 1)
}

func TestSubmitOrder_RejectsExpiredCard(t *testing.T) {
	db := setupStore(t)
	rec := seedCustomer(t, db)
	s := beginSession(t, db, rec.CustID)

	carts := s.Carts()
	require.NoError(t, carts.AddItem(types.CartItem{
		ProductID: 1, ProductName: "Chess Set", Quantity: 1,
		TotalPrice: decimal.RequireFromString("24.95"),
	}))
	require.NoError(t, carts.SetShipAddress(s.DefaultShipAddress()))
	require.NoError(t, carts.SetBillAddress(s.DefaultBillAddress()))
	require.NoError(t, carts.SetPaymentInfo(&types.CreditCard{
		NameOnCard: "John Won", ExpirationDate: "01/01/2020",
		CardNum: "4111111111111111", CardType: "Visa",
	}))

	_, err := s.SubmitOrder(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrCardExpired)
	// A rejected submission leaves the cart intact.
	assert.Len(t, s.Carts().LiveItems(), 1)

	orders, err := s.OrderHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestAuthorizationLevel(t *testing.T) {
	db := setupStore(t)
	rec := seedCustomer(t, db)
	ctx := context.Background()

	s, err := Begin(ctx, db, rec.CustID, nil, 0)
	require.NoError(t, err)
	assert.False(t, s.IsAdmin())

	s, err = Begin(ctx, db, rec.CustID, nil, AdminAuthLevel)
	require.NoError(t, err)
	assert.True(t, s.IsAdmin())
	assert.True(t, s.Profile().IsAdmin)

	s, err = Begin(ctx, db, rec.CustID, nil, AdminAuthLevel+1)
	require.NoError(t, err)
	assert.True(t, s.IsAdmin())
}
