package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "pending"
	OrderStatusApproved     OrderStatus = "approved"
	OrderStatusInProduction OrderStatus = "in_production"
	OrderStatusCompleted    OrderStatus = "completed"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

type Order struct {
	Base
	BudgetID         *uuid.UUID  `gorm:"type:uuid;index" json:"budgetId,omitempty"`
	CustomerID       *uuid.UUID  `gorm:"type:uuid;index" json:"customerId,omitempty"`
	CustomerName     string      `gorm:"size:180" json:"customerName"`
	CustomerEmail    string      `gorm:"size:180" json:"customerEmail"`
	CustomerPhone    string      `gorm:"size:40" json:"customerPhone"`
	CustomerDocument string      `gorm:"size:20" json:"customerDocument"`
	Status           OrderStatus `gorm:"size:16;not null;index" json:"status"`
	Items            []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	// TotalAmount is the sum of item subtotals when the order was created.
	TotalAmount decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"totalAmount"`

	LaborHours         decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"laborHours"`
	LaborRate          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"laborRate"`
	LaborCost          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"laborCost"`
	MaterialCost       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"materialCost"`
	ThirdPartyCost     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"thirdPartyCost"`
	OtherDirectCosts   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"otherDirectCosts"`
	IndirectCostsTotal decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"indirectCostsTotal"`
	ProfitMargin       decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"profitMargin"`
	SimplesRate        decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"simplesRate"`
	TotalCosts         decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"totalCosts"`
	GrossValue         decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"grossValue"`
	SimplesAmount      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"simplesAmount"`
	NetProfit          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"netProfit"`

	FirstDueDate *time.Time `gorm:"type:date" json:"firstDueDate,omitempty"`
	Notes        string     `gorm:"type:text" json:"notes"`
	ApprovedAt   *time.Time `json:"approvedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
	CreatedBy    uuid.UUID  `gorm:"type:uuid;not null" json:"createdBy"`
}

type OrderItem struct {
	Base
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"orderId"`
	ProductID   *uuid.UUID      `gorm:"type:uuid" json:"productId,omitempty"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unitPrice"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"subtotal"`
}
