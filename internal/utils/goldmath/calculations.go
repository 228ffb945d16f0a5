package goldmath

import (
	"github.com/shopspring/decimal"
)

// LoanToValueRatio is the fraction of collateral value a user may borrow against.
var LoanToValueRatio = decimal.NewFromFloat(0.5)

// LoanCommissionRate is the implicit fee retained from loan proceeds. The
// ledger records the gross amount; the commission is never a separate entry.
var LoanCommissionRate = decimal.NewFromFloat(0.05)

// ReferralBonusGrams is credited to a referrer when a referred user's first
// conversion is approved.
var ReferralBonusGrams = decimal.NewFromFloat(0.1)

// MaxLoanable returns the largest ETB loan a gold balance supports at the
// given price: goldBalance × price × LTV.
func MaxLoanable(goldBalance, price decimal.Decimal) decimal.Decimal {
	return goldBalance.Mul(price).Mul(LoanToValueRatio)
}

// CollateralGrams returns the grams held against a loan:
// (amountETB / price) / LTV.
func CollateralGrams(amountETB, price decimal.Decimal) decimal.Decimal {
	return amountETB.Div(price).Div(LoanToValueRatio)
}

// NetLoanProceeds returns the ETB actually credited for a gross loan amount:
// amountETB × (1 − commission).
func NetLoanProceeds(amountETB decimal.Decimal) decimal.Decimal {
	return amountETB.Mul(decimal.NewFromInt(1).Sub(LoanCommissionRate))
}

// GramsForETB converts a birr amount to grams at the given price.
func GramsForETB(amountETB, price decimal.Decimal) decimal.Decimal {
	return amountETB.Div(price)
}
