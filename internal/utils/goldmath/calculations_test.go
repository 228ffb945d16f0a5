package goldmath

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoanArithmetic_ReferenceExample(t *testing.T) {
	// 10g at 8000 ETB/g requesting 20000 ETB:
	// maxLoanable 40000, collateral 5g, net proceeds 19000.
	goldBalance := decimal.NewFromInt(10)
	price := decimal.NewFromInt(8000)
	amountETB := decimal.NewFromInt(20000)

	assert.True(t, decimal.NewFromInt(40000).Equal(MaxLoanable(goldBalance, price)))
	assert.True(t, decimal.NewFromInt(5).Equal(CollateralGrams(amountETB, price)))
	assert.True(t, decimal.NewFromInt(19000).Equal(NetLoanProceeds(amountETB)))
}

func TestGramsForETB(t *testing.T) {
	grams := GramsForETB(decimal.NewFromInt(4000), decimal.NewFromInt(8000))
	assert.True(t, decimal.NewFromFloat(0.5).Equal(grams))
}

func TestCollateralGrams_ScalesInverselyWithPrice(t *testing.T) {
	amountETB := decimal.NewFromInt(10000)
	cheap := CollateralGrams(amountETB, decimal.NewFromInt(7800))
	expensive := CollateralGrams(amountETB, decimal.NewFromInt(8200))
	assert.True(t, cheap.GreaterThan(expensive))
}
