package customer

import "github.com/dshills/storefront/pkg/types"

// RunAddressRules applies the address business rules. A violation comes back
// as a *types.RuleError naming the specific problem.
func RunAddressRules(addr *types.Address) error {
	if addr == nil {
		return types.NewRuleError("address", types.ErrEmptyStreet)
	}
	if err := addr.Validate(); err != nil {
		return types.NewRuleError("address", err)
	}
	return nil
}

// RunPaymentRules applies the payment business rules: payment needs a valid
// billing address and a complete card.
func RunPaymentRules(bill *types.Address, cc *types.CreditCard) error {
	if bill == nil {
		return types.NewRuleError("payment", types.ErrMissingBillAddress)
	}
	if err := bill.Validate(); err != nil {
		return types.NewRuleError("payment", err)
	}
	return runCardRules(cc)
}

func runCardRules(cc *types.CreditCard) error {
	if cc == nil {
		return types.NewRuleError("payment", types.ErrEmptyCardNum)
	}
	if err := cc.Validate(); err != nil {
		return types.NewRuleError("payment", err)
	}
	return nil
}
