// Package workflow holds the allowed status moves of every stateful entity.
package workflow

import (
	"errors"
	"fmt"

	"github.com/gestao-erp/erp-service/internal/model"
)

var (
	ErrUnknownStatus = errors.New("unknown status")
	ErrNotAllowed    = errors.New("transition not allowed")
)

// Table maps a status to the statuses reachable from it in one move.
type Table[S ~string] map[S][]S

// Known reports whether status is a member of the table.
func (t Table[S]) Known(status S) bool {
	_, ok := t[status]
	return ok
}

// Check validates a move. Moving to the current status is always allowed.
func (t Table[S]) Check(from, to S) error {
	if !t.Known(to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if !t.Known(from) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if from == to {
		return nil
	}
	for _, next := range t[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrNotAllowed, from, to)
}

// Terminal reports whether no move leaves status.
func (t Table[S]) Terminal(status S) bool {
	return len(t[status]) == 0
}

var Budget = Table[model.BudgetStatus]{
	model.BudgetStatusDraft:    {model.BudgetStatusSent},
	model.BudgetStatusSent:     {model.BudgetStatusApproved, model.BudgetStatusRejected, model.BudgetStatusDraft},
	model.BudgetStatusApproved: {},
	model.BudgetStatusRejected: {},
}

var Order = Table[model.OrderStatus]{
	model.OrderStatusPending:      {model.OrderStatusApproved, model.OrderStatusCancelled},
	model.OrderStatusApproved:     {model.OrderStatusInProduction, model.OrderStatusCancelled},
	model.OrderStatusInProduction: {model.OrderStatusCompleted, model.OrderStatusCancelled},
	model.OrderStatusCompleted:    {},
	model.OrderStatusCancelled:    {},
}

var Payable = Table[model.PayableStatus]{
	model.PayableStatusPending:   {model.PayableStatusPaid, model.PayableStatusOverdue, model.PayableStatusCancelled},
	model.PayableStatusOverdue:   {model.PayableStatusPaid, model.PayableStatusCancelled},
	model.PayableStatusPaid:      {},
	model.PayableStatusCancelled: {},
}

var Receivable = Table[model.ReceivableStatus]{
	model.ReceivableStatusPending:   {model.ReceivableStatusReceived, model.ReceivableStatusOverdue, model.ReceivableStatusCancelled},
	model.ReceivableStatusOverdue:   {model.ReceivableStatusReceived, model.ReceivableStatusCancelled},
	model.ReceivableStatusReceived:  {},
	model.ReceivableStatusCancelled: {},
}

// ProjectColumns is the kanban board order.
var ProjectColumns = []model.ProjectStatus{
	model.ProjectStatusProject,
	model.ProjectStatusDevelopment,
	model.ProjectStatusDesign,
	model.ProjectStatusReview,
	model.ProjectStatusLaunched,
}

var TaskColumns = []model.TaskStatus{
	model.TaskStatusTodo,
	model.TaskStatusInProgress,
	model.TaskStatusReview,
	model.TaskStatusDone,
}

var Project = kanban(ProjectColumns, model.ProjectStatusCancelled)

var Task = kanban(TaskColumns, model.TaskStatusCancelled)

// kanban builds a board where a card moves one column left or right, and any
// card can be cancelled. Cancelled cards stay cancelled.
func kanban[S ~string](columns []S, cancelled S) Table[S] {
	table := make(Table[S], len(columns)+1)
	for i, status := range columns {
		var next []S
		if i > 0 {
			next = append(next, columns[i-1])
		}
		if i < len(columns)-1 {
			next = append(next, columns[i+1])
		}
		table[status] = append(next, cancelled)
	}
	table[cancelled] = []S{}
	return table
}
