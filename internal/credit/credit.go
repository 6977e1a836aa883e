// Package credit holds the card verification seam. The storefront only needs
// a yes/no answer before an order is submitted; the local verifier applies
// the same field checks the card type itself enforces, and a real gateway
// client can replace it behind the Verifier interface.
package credit

import (
	"context"
	"time"

	"github.com/dshills/storefront/pkg/types"
)

// Verifier answers whether a card is acceptable for payment.
type Verifier interface {
	Verify(ctx context.Context, card *types.CreditCard) error
}

// LocalVerifier validates cards without calling out to a gateway. It checks
// the card's own field rules plus expiration against the current time.
type LocalVerifier struct {
	// Now is overridable for tests. Defaults to time.Now.
	Now func() time.Time
}

// NewLocalVerifier returns a verifier using the wall clock.
func NewLocalVerifier() *LocalVerifier {
	return &LocalVerifier{Now: time.Now}
}

// Verify reports nil when the card passes all local rules.
func (v *LocalVerifier) Verify(_ context.Context, card *types.CreditCard) error {
	if card == nil {
		return types.NewRuleError("payment", types.ErrEmptyCardNum)
	}
	if err := card.Validate(); err != nil {
		return types.NewRuleError("payment", err)
	}
	exp, err := time.Parse(types.ExpDateLayout, card.ExpirationDate)
	if err != nil {
		return types.NewRuleError("payment", types.ErrBadExpiration)
	}
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	if exp.Before(now()) {
		return types.NewRuleError("payment", types.ErrCardExpired)
	}
	return nil
}
