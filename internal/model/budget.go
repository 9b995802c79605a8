package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetStatus string

const (
	BudgetStatusDraft    BudgetStatus = "draft"
	BudgetStatusSent     BudgetStatus = "sent"
	BudgetStatusApproved BudgetStatus = "approved"
	BudgetStatusRejected BudgetStatus = "rejected"
)

// Budget is a customer quote. Every derived amount is stored, together with the
// tax rates used, so an old quote never changes when default rates do.
type Budget struct {
	Base
	CustomerID       *uuid.UUID   `gorm:"type:uuid;index" json:"customerId,omitempty"`
	CustomerName     string       `gorm:"size:180" json:"customerName"`
	CustomerEmail    string       `gorm:"size:180" json:"customerEmail"`
	CustomerPhone    string       `gorm:"size:40" json:"customerPhone"`
	CustomerDocument string       `gorm:"size:20" json:"customerDocument"`
	Title            string       `gorm:"size:200;not null" json:"title"`
	Description      string       `gorm:"type:text" json:"description"`
	Status           BudgetStatus `gorm:"size:16;not null;index" json:"status"`

	LaborHours         decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"laborHours"`
	LaborRate          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"laborRate"`
	LaborCost          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"laborCost"`
	MaterialCost       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"materialCost"`
	ThirdPartyCost     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"thirdPartyCost"`
	OtherDirectCosts   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"otherDirectCosts"`
	IndirectCostsTotal decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"indirectCostsTotal"`
	TotalDirectCosts   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"totalDirectCosts"`
	TotalCosts         decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"totalCosts"`
	ProfitMargin       decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"profitMargin"`

	CBSRate  decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"cbsRate"`
	IBSRate  decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"ibsRate"`
	IRPJRate decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"irpjRate"`
	CSLLRate decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"csllRate"`

	GrossValue        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"grossValue"`
	CBSAmount         decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"cbsAmount"`
	IBSAmount         decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"ibsAmount"`
	NetRevenue        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"netRevenue"`
	ProfitBeforeTaxes decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"profitBeforeTaxes"`
	IRPJAmount        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"irpjAmount"`
	CSLLAmount        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"csllAmount"`
	NetProfit         decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"netProfit"`
	FinalPrice        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"finalPrice"`

	Installments       int        `gorm:"not null" json:"installments"`
	ValidUntil         *time.Time `gorm:"type:date" json:"validUntil,omitempty"`
	ConvertedOrderID   *uuid.UUID `gorm:"type:uuid" json:"convertedOrderId,omitempty"`
	ConvertedProjectID *uuid.UUID `gorm:"type:uuid" json:"convertedProjectId,omitempty"`
	SentAt             *time.Time `json:"sentAt,omitempty"`
	DecidedAt          *time.Time `json:"decidedAt,omitempty"`
	CreatedBy          uuid.UUID  `gorm:"type:uuid;not null" json:"createdBy"`
}

// IsEditable reports whether the quote inputs may still change.
func (b Budget) IsEditable() bool {
	return b.Status == BudgetStatusDraft || b.Status == BudgetStatusSent
}
