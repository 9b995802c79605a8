package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayableStatus string

const (
	PayableStatusPending   PayableStatus = "pending"
	PayableStatusPaid      PayableStatus = "paid"
	PayableStatusOverdue   PayableStatus = "overdue"
	PayableStatusCancelled PayableStatus = "cancelled"
)

type ReceivableStatus string

const (
	ReceivableStatusPending   ReceivableStatus = "pending"
	ReceivableStatusReceived  ReceivableStatus = "received"
	ReceivableStatusOverdue   ReceivableStatus = "overdue"
	ReceivableStatusCancelled ReceivableStatus = "cancelled"
)

// AccountPayable is money owed by the business. Rows created from one amount
// share ParentID, which is the id of installment number 1.
type AccountPayable struct {
	Base
	Description        string          `gorm:"size:255;not null" json:"description"`
	Amount             decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	DueDate            time.Time       `gorm:"type:date;not null;index" json:"dueDate"`
	Status             PayableStatus   `gorm:"size:16;not null;index" json:"status"`
	PaymentDate        *time.Time      `gorm:"type:date" json:"paymentDate,omitempty"`
	Category           string          `gorm:"size:80" json:"category"`
	SupplierID         *uuid.UUID      `gorm:"type:uuid;index" json:"supplierId,omitempty"`
	RecurringExpenseID *uuid.UUID      `gorm:"type:uuid;uniqueIndex:uq_payable_recurring_period" json:"recurringExpenseId,omitempty"`
	Period             string          `gorm:"size:7;uniqueIndex:uq_payable_recurring_period" json:"period,omitempty"`
	InstallmentNumber  int             `gorm:"not null" json:"installmentNumber"`
	TotalInstallments  int             `gorm:"not null" json:"totalInstallments"`
	ParentID           *uuid.UUID      `gorm:"type:uuid;index" json:"parentId,omitempty"`
	Notes              string          `gorm:"type:text" json:"notes"`
	CreatedBy          *uuid.UUID      `gorm:"type:uuid" json:"createdBy,omitempty"`
}

// AccountReceivable is money owed to the business.
type AccountReceivable struct {
	Base
	Description       string           `gorm:"size:255;not null" json:"description"`
	Amount            decimal.Decimal  `gorm:"type:numeric(18,2);not null" json:"amount"`
	DueDate           time.Time        `gorm:"type:date;not null;index" json:"dueDate"`
	Status            ReceivableStatus `gorm:"size:16;not null;index" json:"status"`
	ReceivedDate      *time.Time       `gorm:"type:date" json:"receivedDate,omitempty"`
	Category          string           `gorm:"size:80" json:"category"`
	CustomerID        *uuid.UUID       `gorm:"type:uuid;index" json:"customerId,omitempty"`
	OrderID           *uuid.UUID       `gorm:"type:uuid;index" json:"orderId,omitempty"`
	InstallmentNumber int              `gorm:"not null" json:"installmentNumber"`
	TotalInstallments int              `gorm:"not null" json:"totalInstallments"`
	ParentID          *uuid.UUID       `gorm:"type:uuid;index" json:"parentId,omitempty"`
	Notes             string           `gorm:"type:text" json:"notes"`
	CreatedBy         *uuid.UUID       `gorm:"type:uuid" json:"createdBy,omitempty"`
}

type RecurringExpense struct {
	Base
	Description         string          `gorm:"size:255;not null" json:"description"`
	Amount              decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	SupplierID          *uuid.UUID      `gorm:"type:uuid" json:"supplierId,omitempty"`
	Category            string          `gorm:"size:80" json:"category"`
	DayOfMonth          int             `gorm:"not null" json:"dayOfMonth"`
	StartDate           time.Time       `gorm:"type:date;not null" json:"startDate"`
	EndDate             *time.Time      `gorm:"type:date" json:"endDate,omitempty"`
	Active              bool            `gorm:"not null;index" json:"active"`
	LastGeneratedPeriod string          `gorm:"size:7" json:"lastGeneratedPeriod"`
	CreatedBy           *uuid.UUID      `gorm:"type:uuid" json:"createdBy,omitempty"`
}
