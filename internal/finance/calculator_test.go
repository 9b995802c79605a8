package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBudgetWorkedExample(t *testing.T) {
	in := CostInputs{
		LaborHours:         10,
		LaborRate:          50,
		MaterialCost:       90,
		IndirectCostsTotal: 10,
		ProfitMargin:       50,
	}
	got := CalculateBudget(in, BudgetRates{CBS: 12, IBS: 5, IRPJ: 15, CSLL: 9})

	assert.InDelta(t, 500, got.LaborCost, 1e-9)
	assert.InDelta(t, 590, got.TotalDirectCosts, 1e-9)
	assert.InDelta(t, 600, got.TotalCosts, 1e-9)
	assert.InDelta(t, 1200, got.GrossValue, 1e-9)
	assert.InDelta(t, 144, got.CBSAmount, 1e-9)
	assert.InDelta(t, 60, got.IBSAmount, 1e-9)
	assert.InDelta(t, 996, got.NetRevenue, 1e-9)
	assert.InDelta(t, 396, got.ProfitBeforeTaxes, 1e-9)
	assert.InDelta(t, 59.4, got.IRPJAmount, 1e-9)
	assert.InDelta(t, 35.64, got.CSLLAmount, 1e-9)
	assert.InDelta(t, 300.96, got.NetProfit, 1e-9)
	assert.InDelta(t, 1200, got.FinalPrice, 1e-9)

	assert.Equal(t, "300.96", Cents(got.NetProfit).StringFixed(2))
	assert.Equal(t, "59.40", Cents(got.IRPJAmount).StringFixed(2))
}

func TestGrossValueMarkupProperty(t *testing.T) {
	for _, margin := range []float64{0, 1, 12.5, 33.3, 50, 75, 99, 99.9, -20} {
		gross := GrossValue(1234.56, margin)
		assert.InDelta(t, 1234.56, gross*(1-margin/100), 1e-6, "margin %v", margin)
	}
}

func TestGrossValueMarginAtOrAboveHundredIsCostOnly(t *testing.T) {
	for _, margin := range []float64{100, 100.01, 150, 1e6} {
		assert.Equal(t, 800.0, GrossValue(800, margin), "margin %v", margin)
	}
}

func TestLaborCostIsHoursTimesRate(t *testing.T) {
	in := CostInputs{LaborHours: 7.5, LaborRate: 80}
	require.InDelta(t, 600, in.LaborCost(), 1e-9)
	require.InDelta(t, 600, CalculateOrder(in, 0).TotalDirectCosts, 1e-9)
}

func TestCalculateOrderSimples(t *testing.T) {
	in := CostInputs{LaborHours: 10, LaborRate: 50, MaterialCost: 90, IndirectCostsTotal: 10, ProfitMargin: 50}
	got := CalculateOrder(in, 6)

	assert.InDelta(t, 1200, got.GrossValue, 1e-9)
	assert.InDelta(t, 72, got.SimplesAmount, 1e-9)
	assert.InDelta(t, 528, got.NetProfit, 1e-9)
	assert.InDelta(t, 1200, got.FinalPrice, 1e-9)
}

func TestCalculateBudgetZeroInputs(t *testing.T) {
	got := CalculateBudget(CostInputs{}, BudgetRates{CBS: 8.8, IBS: 17.7, IRPJ: 15, CSLL: 9})
	assert.Zero(t, got.GrossValue)
	assert.Zero(t, got.NetProfit)
}

func TestNormalizedMatchesStoredPrecision(t *testing.T) {
	in := CostInputs{LaborHours: 0.12345, LaborRate: 100.004, MaterialCost: 90.005, ProfitMargin: 33.33333}
	got := in.Normalized()

	assert.Equal(t, 0.1235, got.LaborHours)
	assert.Equal(t, 100.0, got.LaborRate)
	assert.Equal(t, 90.01, got.MaterialCost)
	assert.Equal(t, 33.3333, got.ProfitMargin)
	assert.Equal(t, "12.35", Cents(got.LaborCost()).StringFixed(2))
}
