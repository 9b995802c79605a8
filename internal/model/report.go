package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StatusTotal struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type DashboardSummary struct {
	Receivables       []StatusTotal   `json:"receivables"`
	Payables          []StatusTotal   `json:"payables"`
	Orders            []StatusCount   `json:"orders"`
	Budgets           []StatusCount   `json:"budgets"`
	PendingReceivable decimal.Decimal `json:"pendingReceivable"`
	PendingPayable    decimal.Decimal `json:"pendingPayable"`
	ProjectedNet      decimal.Decimal `json:"projectedNet"`
}

type AccountsReport struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Receivables []AccountReceivable
	Payables    []AccountPayable
}

type CalendarEventKind string

const (
	CalendarEventPayable    CalendarEventKind = "payable"
	CalendarEventReceivable CalendarEventKind = "receivable"
	CalendarEventProject    CalendarEventKind = "project"
	CalendarEventTask       CalendarEventKind = "task"
	CalendarEventBudget     CalendarEventKind = "budget"
)

type CalendarEvent struct {
	Date     time.Time         `json:"date"`
	Kind     CalendarEventKind `json:"kind"`
	Title    string            `json:"title"`
	EntityID uuid.UUID         `json:"entityId"`
	Status   string            `json:"status"`
	Amount   *decimal.Decimal  `json:"amount,omitempty"`
}
