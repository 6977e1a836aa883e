package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dshills/storefront/pkg/types"
)

// orderDateLayout is the wire format for order dates in the accounts
// database, matching the existing data.
const orderDateLayout = "01/02/2006"

// AccountsDB implements AccountsStore over the accounts SQLite database.
type AccountsDB struct {
	db      *sql.DB
	timeout time.Duration
	retry   RetryConfig
}

// NewAccountsDB opens the accounts database and applies pending migrations.
func NewAccountsDB(cfg Config) (*AccountsDB, error) {
	db, err := openDatabase(cfg.AccountsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open accounts database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db, AccountsMigrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply accounts migrations: %w", err)
	}

	return &AccountsDB{db: db, timeout: cfg.QueryTimeout, retry: cfg.Retry}, nil
}

// Close closes the database connection
func (s *AccountsDB) Close() error {
	return s.db.Close()
}

// Customer operations

// CreateCustomer inserts a full Customer row, including the embedded default
// ship/bill address columns. Runs in its own committed transaction.
func (s *AccountsDB) CreateCustomer(ctx context.Context, rec *CustomerRecord) error {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	query := `
		INSERT INTO Customer (fname, lname,
			shipaddress1, shipcity, shipstate, shipzipcode,
			billaddress1, billcity, billstate, billzipcode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			rec.FirstName, rec.LastName,
			rec.DefaultShip.Street, rec.DefaultShip.City, rec.DefaultShip.State, rec.DefaultShip.Zip,
			rec.DefaultBill.Street, rec.DefaultBill.City, rec.DefaultBill.State, rec.DefaultBill.Zip)
		if err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		rec.CustID = int(id)
		return nil
	})
}

// GetCustomerProfile reads the profile columns for one customer.
func (s *AccountsDB) GetCustomerProfile(ctx context.Context, custID int) (*types.CustomerProfile, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return readWithRetry(ctx, s.retry, func() (*types.CustomerProfile, error) {
		return s.getCustomerProfile(ctx, s.db, custID)
	})
}

func (s *AccountsDB) getCustomerProfile(ctx context.Context, q querier, custID int) (*types.CustomerProfile, error) {
	query := `SELECT custid, fname, lname FROM Customer WHERE custid = ?`

	var profile types.CustomerProfile
	err := q.QueryRowContext(ctx, query, custID).Scan(
		&profile.CustID, &profile.FirstName, &profile.LastName,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read customer profile: %w", err)
	}
	return &profile, nil
}

// Address operations

// GetDefaultShipAddress reads the default shipping address embedded in the
// Customer row.
func (s *AccountsDB) GetDefaultShipAddress(ctx context.Context, custID int) (*types.Address, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return readWithRetry(ctx, s.retry, func() (*types.Address, error) {
		query := `SELECT shipaddress1, shipcity, shipstate, shipzipcode FROM Customer WHERE custid = ?`
		return s.getEmbeddedAddress(ctx, query, custID, true, false)
	})
}

// GetDefaultBillAddress reads the default billing address embedded in the
// Customer row.
func (s *AccountsDB) GetDefaultBillAddress(ctx context.Context, custID int) (*types.Address, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return readWithRetry(ctx, s.retry, func() (*types.Address, error) {
		query := `SELECT billaddress1, billcity, billstate, billzipcode FROM Customer WHERE custid = ?`
		return s.getEmbeddedAddress(ctx, query, custID, false, true)
	})
}

func (s *AccountsDB) getEmbeddedAddress(ctx context.Context, query string, custID int, isShip, isBill bool) (*types.Address, error) {
	var street, city, state, zip sql.NullString
	err := s.db.QueryRowContext(ctx, query, custID).Scan(&street, &city, &state, &zip)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read default address: %w", err)
	}
	// Legacy rows carry empty strings instead of NULLs. Either way a blank
	// street means the customer has no default address here.
	if !street.Valid || street.String == "" {
		return nil, ErrNotFound
	}
	return &types.Address{
		Street: street.String,
		City:   city.String,
		State:  state.String,
		Zip:    zip.String,
		IsShip: isShip,
		IsBill: isBill,
	}, nil
}

// ListAddresses returns every alternate address stored for the customer.
func (s *AccountsDB) ListAddresses(ctx context.Context, custID int) ([]types.Address, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return readWithRetry(ctx, s.retry, func() ([]types.Address, error) {
		return s.listAddresses(ctx, custID)
	})
}

func (s *AccountsDB) listAddresses(ctx context.Context, custID int) ([]types.Address, error) {
	query := `
		SELECT street, city, state, zip, isship, isbill
		FROM altaddress
		WHERE custid = ?
		ORDER BY addressid
	`
	rows, err := s.db.QueryContext(ctx, query, custID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return collectRows(rows, func(rows *sql.Rows) (types.Address, error) {
		var addr types.Address
		err := rows.Scan(&addr.Street, &addr.City, &addr.State, &addr.Zip, &addr.IsShip, &addr.IsBill)
		return addr, err
	})
}

// SaveAddress inserts a new alternate address for the customer and returns
// the generated address id. Runs in its own committed transaction.
func (s *AccountsDB) SaveAddress(ctx context.Context, custID int, addr *types.Address) (int, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	query := `
		INSERT INTO altaddress (custid, street, city, state, zip, isship, isbill)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	var id int
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			custID, addr.Street, addr.City, addr.State, addr.Zip, addr.IsShip, addr.IsBill)
		if err != nil {
			return fmt.Errorf("failed to save address: %w", err)
		}
		generated, err := result.LastInsertId()
		if err != nil {
			return err
		}
		id = int(generated)
		return nil
	})
	return id, err
}

// Payment operations

// GetDefaultPaymentInfo reads the customer's default payment card. The name
// on card is derived from the profile, matching the stored data which has no
// name column.
func (s *AccountsDB) GetDefaultPaymentInfo(ctx context.Context, profile *types.CustomerProfile) (*types.CreditCard, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return readWithRetry(ctx, s.retry, func() (*types.CreditCard, error) {
		query := `SELECT expdate, cardtype, cardnum FROM altpayment WHERE custid = ? ORDER BY paymentid LIMIT 1`

		var cc types.CreditCard
		err := s.db.QueryRowContext(ctx, query, profile.CustID).Scan(
			&cc.ExpirationDate, &cc.CardType, &cc.CardNum,
		)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read payment info: %w", err)
		}
		cc.NameOnCard = profile.FullName()
		return &cc, nil
	})
}

// SavePaymentInfo inserts a payment card for the customer and returns the
// generated payment id. Runs in its own committed transaction.
func (s *AccountsDB) SavePaymentInfo(ctx context.Context, custID int, cc *types.CreditCard) (int, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	query := `INSERT INTO altpayment (custid, expdate, cardtype, cardnum) VALUES (?, ?, ?, ?)`
	var id int
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, custID, cc.ExpirationDate, cc.CardType, cc.CardNum)
		if err != nil {
			return fmt.Errorf("failed to save payment info: %w", err)
		}
		generated, err := result.LastInsertId()
		if err != nil {
			return err
		}
		id = int(generated)
		return nil
	})
	return id, err
}

// Order operations

// ListOrderIDs returns the ids of every order placed by the customer,
// oldest first. The explicit ordering fixes the result order for history
// assembly.
func (s *AccountsDB) ListOrderIDs(ctx context.Context, custID int) ([]int, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return readWithRetry(ctx, s.retry, func() ([]int, error) {
		query := `SELECT orderid FROM ordertbl WHERE custid = ? ORDER BY orderid`
		rows, err := s.db.QueryContext(ctx, query, custID)
		if err != nil {
			return nil, fmt.Errorf("failed to list order ids: %w", err)
		}
		return collectRows(rows, func(rows *sql.Rows) (int, error) {
			var id int
			err := rows.Scan(&id)
			return id, err
		})
	})
}

// GetOrder reads one order header. Line items are fetched separately and
// attached by the order subsystem.
func (s *AccountsDB) GetOrder(ctx context.Context, orderID int) (*types.Order, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return readWithRetry(ctx, s.retry, func() (*types.Order, error) {
		return s.getOrder(ctx, orderID)
	})
}

func (s *AccountsDB) getOrder(ctx context.Context, orderID int) (*types.Order, error) {
	query := `
		SELECT orderid, orderdate, totalprice,
		       shipaddress1, shipcity, shipstate, shipzipcode,
		       billaddress1, billcity, billstate, billzipcode,
		       nameoncard, expdate, cardnum, cardtype
		FROM ordertbl
		WHERE orderid = ?
	`
	var order types.Order
	var orderDate string
	ship := types.Address{IsShip: true}
	bill := types.Address{IsBill: true}
	var cc types.CreditCard

	err := s.db.QueryRowContext(ctx, query, orderID).Scan(
		&order.OrderID, &orderDate, &order.TotalPrice,
		&ship.Street, &ship.City, &ship.State, &ship.Zip,
		&bill.Street, &bill.City, &bill.State, &bill.Zip,
		&cc.NameOnCard, &cc.ExpirationDate, &cc.CardNum, &cc.CardType,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read order: %w", err)
	}

	date, err := time.Parse(orderDateLayout, orderDate)
	if err != nil {
		return nil, fmt.Errorf("invalid order date %q: %w", orderDate, err)
	}
	order.Date = date
	order.ShipAddress = &ship
	order.BillAddress = &bill
	order.PaymentInfo = &cc
	return &order, nil
}

// ListOrderItems returns the line items for one order.
func (s *AccountsDB) ListOrderItems(ctx context.Context, orderID int) ([]types.OrderItem, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return readWithRetry(ctx, s.retry, func() ([]types.OrderItem, error) {
		query := `
			SELECT orderitemid, orderid, productid, productname, quantity, unitprice
			FROM orderitem
			WHERE orderid = ?
			ORDER BY orderitemid
		`
		rows, err := s.db.QueryContext(ctx, query, orderID)
		if err != nil {
			return nil, fmt.Errorf("failed to list order items: %w", err)
		}
		return collectRows(rows, func(rows *sql.Rows) (types.OrderItem, error) {
			var item types.OrderItem
			err := rows.Scan(&item.OrderItemID, &item.OrderID, &item.ProductID,
				&item.ProductName, &item.Quantity, &item.UnitPrice)
			return item, err
		})
	})
}

// CreateOrder inserts an order header and all of its line items in one
// transaction; a failure on any item rolls back the whole order.
func (s *AccountsDB) CreateOrder(ctx context.Context, custID int, order *types.Order) (int, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	headerQuery := `
		INSERT INTO ordertbl (custid, orderdate, totalprice,
			shipaddress1, shipcity, shipstate, shipzipcode,
			billaddress1, billcity, billstate, billzipcode,
			nameoncard, expdate, cardnum, cardtype)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	itemQuery := `
		INSERT INTO orderitem (orderid, productid, productname, quantity, unitprice)
		VALUES (?, ?, ?, ?, ?)
	`

	ship := order.ShipAddress
	if ship == nil {
		ship = &types.Address{}
	}
	bill := order.BillAddress
	if bill == nil {
		bill = &types.Address{}
	}
	cc := order.PaymentInfo
	if cc == nil {
		cc = &types.CreditCard{}
	}

	var orderID int
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, headerQuery,
			custID, order.Date.Format(orderDateLayout), order.TotalPrice,
			ship.Street, ship.City, ship.State, ship.Zip,
			bill.Street, bill.City, bill.State, bill.Zip,
			cc.NameOnCard, cc.ExpirationDate, cc.CardNum, cc.CardType)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		generated, err := result.LastInsertId()
		if err != nil {
			return err
		}
		orderID = int(generated)

		for i := range order.Items {
			item := &order.Items[i]
			_, err := tx.ExecContext(ctx, itemQuery,
				orderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice)
			if err != nil {
				return fmt.Errorf("failed to insert order item %q: %w", item.ProductName, err)
			}
		}
		return nil
	})
	return orderID, err
}

// Saved-cart operations

// SaveCart persists the cart as the customer's saved cart, replacing any
// previous one. Cart and items are written in one transaction.
func (s *AccountsDB) SaveCart(ctx context.Context, custID int, cart *types.ShoppingCart) (int, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	cartQuery := `
		INSERT INTO shopcart (custid,
			shipaddress1, shipcity, shipstate, shipzipcode,
			billaddress1, billcity, billstate, billzipcode,
			nameoncard, expdate, cardnum, cardtype)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	itemQuery := `
		INSERT INTO shopcartitem (shopcartid, productid, productname, quantity, totalprice)
		VALUES (?, ?, ?, ?, ?)
	`

	ship := cart.ShipAddress
	if ship == nil {
		ship = &types.Address{}
	}
	bill := cart.BillAddress
	if bill == nil {
		bill = &types.Address{}
	}
	cc := cart.PaymentInfo
	if cc == nil {
		cc = &types.CreditCard{}
	}

	var cartID int
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		// Replace the previous saved cart; items go via cascade.
		if _, err := tx.ExecContext(ctx, `DELETE FROM shopcart WHERE custid = ?`, custID); err != nil {
			return fmt.Errorf("failed to replace saved cart: %w", err)
		}

		result, err := tx.ExecContext(ctx, cartQuery,
			custID,
			ship.Street, ship.City, ship.State, ship.Zip,
			bill.Street, bill.City, bill.State, bill.Zip,
			cc.NameOnCard, cc.ExpirationDate, cc.CardNum, cc.CardType)
		if err != nil {
			return fmt.Errorf("failed to save cart: %w", err)
		}
		generated, err := result.LastInsertId()
		if err != nil {
			return err
		}
		cartID = int(generated)

		for i := range cart.Items {
			item := &cart.Items[i]
			_, err := tx.ExecContext(ctx, itemQuery,
				cartID, item.ProductID, item.ProductName, item.Quantity, item.TotalPrice)
			if err != nil {
				return fmt.Errorf("failed to save cart item %q: %w", item.ProductName, err)
			}
		}
		return nil
	})
	return cartID, err
}

// GetSavedCart reads the customer's saved cart with its items. Returns
// ErrNotFound when the customer has never saved a cart.
func (s *AccountsDB) GetSavedCart(ctx context.Context, custID int) (*types.ShoppingCart, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()
	return readWithRetry(ctx, s.retry, func() (*types.ShoppingCart, error) {
		return s.getSavedCart(ctx, custID)
	})
}

func (s *AccountsDB) getSavedCart(ctx context.Context, custID int) (*types.ShoppingCart, error) {
	cartQuery := `
		SELECT shopcartid,
		       shipaddress1, shipcity, shipstate, shipzipcode,
		       billaddress1, billcity, billstate, billzipcode,
		       nameoncard, expdate, cardnum, cardtype
		FROM shopcart
		WHERE custid = ?
	`
	var cartID int
	ship := types.Address{IsShip: true}
	bill := types.Address{IsBill: true}
	var cc types.CreditCard

	err := s.db.QueryRowContext(ctx, cartQuery, custID).Scan(
		&cartID,
		&ship.Street, &ship.City, &ship.State, &ship.Zip,
		&bill.Street, &bill.City, &bill.State, &bill.Zip,
		&cc.NameOnCard, &cc.ExpirationDate, &cc.CardNum, &cc.CardType,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read saved cart: %w", err)
	}

	itemQuery := `
		SELECT productid, productname, quantity, totalprice
		FROM shopcartitem
		WHERE shopcartid = ?
		ORDER BY cartitemid
	`
	rows, err := s.db.QueryContext(ctx, itemQuery, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to read saved cart items: %w", err)
	}
	items, err := collectRows(rows, func(rows *sql.Rows) (types.CartItem, error) {
		var item types.CartItem
		var productID sql.NullInt64
		err := rows.Scan(&productID, &item.ProductName, &item.Quantity, &item.TotalPrice)
		item.ProductID = int(productID.Int64)
		return item, err
	})
	if err != nil {
		return nil, err
	}

	cart := types.NewShoppingCart()
	cart.ShipAddress = &ship
	cart.BillAddress = &bill
	cart.PaymentInfo = &cc
	if len(items) > 0 {
		cart.Items = items
	}
	return cart, nil
}
