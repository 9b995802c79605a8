// Package finance holds the pricing arithmetic shared by budgets and orders and the
// installment schedule used by accounts payable and receivable.
package finance

import "github.com/shopspring/decimal"

// CostInputs are the itemized costs and target margin of a quote or order.
// Percentages are expressed as 0..100.
type CostInputs struct {
	LaborHours         float64
	LaborRate          float64
	MaterialCost       float64
	ThirdPartyCost     float64
	OtherDirectCosts   float64
	IndirectCostsTotal float64
	ProfitMargin       float64
}

// Normalized rounds every input to the precision it is stored with: hours and
// margin to 4 places, amounts to cents. A breakdown computed from normalized
// inputs is reproducible from the stored row.
func (in CostInputs) Normalized() CostInputs {
	return CostInputs{
		LaborHours:         round(in.LaborHours, 4),
		LaborRate:          round(in.LaborRate, 2),
		MaterialCost:       round(in.MaterialCost, 2),
		ThirdPartyCost:     round(in.ThirdPartyCost, 2),
		OtherDirectCosts:   round(in.OtherDirectCosts, 2),
		IndirectCostsTotal: round(in.IndirectCostsTotal, 2),
		ProfitMargin:       round(in.ProfitMargin, 4),
	}
}

func round(value float64, places int32) float64 {
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}

// BudgetRates are the percentage rates applied by the budget variant.
type BudgetRates struct {
	CBS  float64
	IBS  float64
	IRPJ float64
	CSLL float64
}

type BudgetBreakdown struct {
	LaborCost         float64 `json:"laborCost"`
	TotalDirectCosts  float64 `json:"totalDirectCosts"`
	TotalCosts        float64 `json:"totalCosts"`
	GrossValue        float64 `json:"grossValue"`
	CBSAmount         float64 `json:"cbsAmount"`
	IBSAmount         float64 `json:"ibsAmount"`
	NetRevenue        float64 `json:"netRevenue"`
	ProfitBeforeTaxes float64 `json:"profitBeforeTaxes"`
	IRPJAmount        float64 `json:"irpjAmount"`
	CSLLAmount        float64 `json:"csllAmount"`
	NetProfit         float64 `json:"netProfit"`
	FinalPrice        float64 `json:"finalPrice"`
}

type OrderBreakdown struct {
	LaborCost        float64 `json:"laborCost"`
	TotalDirectCosts float64 `json:"totalDirectCosts"`
	TotalCosts       float64 `json:"totalCosts"`
	GrossValue       float64 `json:"grossValue"`
	SimplesAmount    float64 `json:"simplesAmount"`
	NetProfit        float64 `json:"netProfit"`
	FinalPrice       float64 `json:"finalPrice"`
}

// LaborCost is always hours times rate; a separately supplied labor cost is never trusted.
func (in CostInputs) LaborCost() float64 {
	return in.LaborHours * in.LaborRate
}

func (in CostInputs) TotalDirectCosts() float64 {
	return in.LaborCost() + in.MaterialCost + in.ThirdPartyCost + in.OtherDirectCosts
}

func (in CostInputs) TotalCosts() float64 {
	return in.TotalDirectCosts() + in.IndirectCostsTotal
}

// GrossValue marks total costs up so that the margin is a share of the sale price.
// A margin of 100% or more falls back to cost-only pricing.
func GrossValue(totalCosts, profitMargin float64) float64 {
	if profitMargin >= 100 {
		return totalCosts
	}
	return totalCosts / (1 - profitMargin/100)
}

// CalculateBudget applies the CBS/IBS consumption taxes on the gross value and the
// IRPJ/CSLL income taxes on the profit left after them.
func CalculateBudget(in CostInputs, rates BudgetRates) BudgetBreakdown {
	totalCosts := in.TotalCosts()
	gross := GrossValue(totalCosts, in.ProfitMargin)

	cbs := gross * rates.CBS / 100
	ibs := gross * rates.IBS / 100
	netRevenue := gross - cbs - ibs
	beforeTaxes := netRevenue - totalCosts
	irpj := beforeTaxes * rates.IRPJ / 100
	csll := beforeTaxes * rates.CSLL / 100

	return BudgetBreakdown{
		LaborCost:         in.LaborCost(),
		TotalDirectCosts:  in.TotalDirectCosts(),
		TotalCosts:        totalCosts,
		GrossValue:        gross,
		CBSAmount:         cbs,
		IBSAmount:         ibs,
		NetRevenue:        netRevenue,
		ProfitBeforeTaxes: beforeTaxes,
		IRPJAmount:        irpj,
		CSLLAmount:        csll,
		NetProfit:         beforeTaxes - irpj - csll,
		FinalPrice:        gross,
	}
}

// CalculateOrder is the Simples Nacional variant: one rate over the gross value.
func CalculateOrder(in CostInputs, simplesRate float64) OrderBreakdown {
	totalCosts := in.TotalCosts()
	gross := GrossValue(totalCosts, in.ProfitMargin)
	simples := gross * simplesRate / 100

	return OrderBreakdown{
		LaborCost:        in.LaborCost(),
		TotalDirectCosts: in.TotalDirectCosts(),
		TotalCosts:       totalCosts,
		GrossValue:       gross,
		SimplesAmount:    simples,
		NetProfit:        gross - totalCosts - simples,
		FinalPrice:       gross,
	}
}

// Cents rounds a calculator output to two decimal places for storage.
func Cents(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(2)
}
