package dfc

import "github.com/shopspring/decimal"

// Balance is the outcome of applying a formula to a period.
type Balance struct {
	Opening        decimal.Decimal
	Inflows        decimal.Decimal
	OutflowsRaw    decimal.Decimal
	SignedOutflows decimal.Decimal
	Closing        decimal.Decimal
	CashGenerated  decimal.Decimal // always Closing - Opening
}

// SignOutflows converts the raw outflow total into the signed value the
// formulas operate on: -|raw| when forced negative, -raw otherwise.
func SignOutflows(raw decimal.Decimal, forceNegative bool) decimal.Decimal {
	if forceNegative {
		return raw.Abs().Neg()
	}
	return raw.Neg()
}

// Evaluate computes the closing balance of a period. The two formulas that
// subtract outflows are kept as separate cases even though they agree
// arithmetically; stored configs refer to each by name.
func Evaluate(opening, inflows, outflowsRaw decimal.Decimal, cfg Config) Balance {
	signed := SignOutflows(outflowsRaw, cfg.ForceOutflowNegative)

	var closing decimal.Decimal
	switch cfg.Formula {
	case FormulaPlusOutflows:
		closing = opening.Add(inflows).Add(signed)
	case FormulaNetMovement:
		closing = opening.Add(inflows.Sub(signed))
	case FormulaInflowsOnly:
		closing = opening.Add(inflows)
	case FormulaOutflowsOnly:
		closing = opening.Add(signed)
	default: // FormulaMinusOutflows and anything unrecognized
		closing = opening.Add(inflows).Sub(signed)
	}

	return Balance{
		Opening:        opening,
		Inflows:        inflows,
		OutflowsRaw:    outflowsRaw,
		SignedOutflows: signed,
		Closing:        closing,
		CashGenerated:  closing.Sub(opening),
	}
}
