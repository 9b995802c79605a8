package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/repository"
)

func TestOrderCreateComputesTotals(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	product, err := services.Catalog.CreateProduct(ctx, staff, ProductInput{Name: "Parafuso", SKU: "PAR-01", UnitPrice: 0.35})
	require.NoError(t, err)

	order, err := services.Orders.Create(ctx, staff, OrderInput{
		Customer: CustomerSnapshot{Name: "Loja Norte"},
		Items: []OrderItemInput{
			{Description: "Instalação", Quantity: 2, UnitPrice: 150},
			{ProductID: &product.ID, Quantity: 100},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Parafuso", order.Items[1].Description)
	assert.Equal(t, "35.00", order.Items[1].Subtotal.StringFixed(2))
	assert.Equal(t, "335.00", order.TotalAmount.StringFixed(2))
	assert.Equal(t, "6.00", order.SimplesRate.StringFixed(2))

	stored, err := services.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

func TestOrderCreateValidatesItems(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	_, err := services.Orders.Create(ctx, staff, OrderInput{Customer: CustomerSnapshot{Name: "X"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = services.Orders.Create(ctx, staff, OrderInput{
		Customer: CustomerSnapshot{Name: "X"},
		Items:    []OrderItemInput{{Description: "Y", Quantity: 0, UnitPrice: 10}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOrderApprovalCreatesInstallmentReceivables(t *testing.T) {
	services, store := newTestServices(t)
	ctx := context.Background()

	budget := approvedBudget(t, services)
	order, err := services.Budgets.ConvertToOrder(ctx, staff, budget.ID)
	require.NoError(t, err)

	_, err = services.Orders.Transition(ctx, staff, order.ID, model.OrderStatusApproved)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	approved, err := services.Orders.Transition(ctx, manager, order.ID, model.OrderStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusApproved, approved.Status)
	assert.NotNil(t, approved.ApprovedAt)

	rows, err := store.Accounts.ListReceivables(ctx, repository.AccountFilter{OrderID: &order.ID})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	total := decimal.Zero
	for i, row := range rows {
		assert.Equal(t, i+1, row.InstallmentNumber)
		assert.Equal(t, 3, row.TotalInstallments)
		assert.Equal(t, model.ReceivableStatusPending, row.Status)
		require.NotNil(t, row.ParentID)
		assert.Equal(t, rows[0].ID, *row.ParentID)
		total = total.Add(row.Amount)
	}
	assert.Equal(t, "1200.00", total.StringFixed(2))
	assert.Equal(t, day(2025, 2, 14), rows[0].DueDate.UTC())
	assert.Equal(t, day(2025, 3, 14), rows[1].DueDate.UTC())
	assert.Equal(t, day(2025, 4, 14), rows[2].DueDate.UTC())

	// approving again is a no-op and must not bill twice
	_, err = services.Orders.Transition(ctx, manager, order.ID, model.OrderStatusApproved)
	require.NoError(t, err)
	count, err := store.Accounts.CountReceivablesForOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestOrderApprovalRollsBackWhenReceivablesFail(t *testing.T) {
	services, store, database := newTestServicesWithDB(t)
	ctx := context.Background()

	budget := approvedBudget(t, services)
	order, err := services.Budgets.ConvertToOrder(ctx, staff, budget.ID)
	require.NoError(t, err)

	failing := true
	err = database.Callback().Create().Before("gorm:create").Register("test:refuse_receivables", func(tx *gorm.DB) {
		if failing && tx.Statement.Table == "account_receivables" {
			_ = tx.AddError(errors.New("receivable insert refused"))
		}
	})
	require.NoError(t, err)

	_, err = services.Orders.Transition(ctx, manager, order.ID, model.OrderStatusApproved)
	require.Error(t, err)

	stored, err := services.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, stored.Status)
	assert.Nil(t, stored.ApprovedAt)
	count, err := store.Accounts.CountReceivablesForOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	failing = false
	approved, err := services.Orders.Transition(ctx, manager, order.ID, model.OrderStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusApproved, approved.Status)
	count, err = store.Accounts.CountReceivablesForOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	_, err = services.Orders.Transition(ctx, manager, order.ID, model.OrderStatusApproved)
	require.NoError(t, err)
	count, err = store.Accounts.CountReceivablesForOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestOrderCancellationCancelsOpenReceivables(t *testing.T) {
	services, store := newTestServices(t)
	ctx := context.Background()

	budget := approvedBudget(t, services)
	order, err := services.Budgets.ConvertToOrder(ctx, staff, budget.ID)
	require.NoError(t, err)
	_, err = services.Orders.Transition(ctx, manager, order.ID, model.OrderStatusApproved)
	require.NoError(t, err)
	_, err = services.Orders.Transition(ctx, staff, order.ID, model.OrderStatusInProduction)
	require.NoError(t, err)

	rows, err := store.Accounts.ListReceivables(ctx, repository.AccountFilter{OrderID: &order.ID})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	received, err := services.Accounts.TransitionReceivable(ctx, rows[0].ID, model.ReceivableStatusReceived, ptr(day(2025, 1, 20)))
	require.NoError(t, err)

	cancelled, err := services.Orders.Transition(ctx, staff, order.ID, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.NotNil(t, cancelled.CancelledAt)

	rows, err = store.Accounts.ListReceivables(ctx, repository.AccountFilter{OrderID: &order.ID})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		if row.ID == received.ID {
			assert.Equal(t, model.ReceivableStatusReceived, row.Status)
			require.NotNil(t, row.ReceivedDate)
			assert.Equal(t, day(2025, 1, 20), row.ReceivedDate.UTC())
			continue
		}
		assert.Equal(t, model.ReceivableStatusCancelled, row.Status)
	}
}

func TestOrderApprovalUsesFirstDueDate(t *testing.T) {
	services, store := newTestServices(t)
	ctx := context.Background()

	order, err := services.Orders.Create(ctx, staff, OrderInput{
		Customer:     CustomerSnapshot{Name: "Loja"},
		Items:        []OrderItemInput{{Description: "Serviço", Quantity: 1, UnitPrice: 100}},
		FirstDueDate: ptr(day(2025, 1, 31)),
	})
	require.NoError(t, err)

	_, err = services.Orders.Transition(ctx, admin, order.ID, model.OrderStatusApproved)
	require.NoError(t, err)

	rows, err := store.Accounts.ListReceivables(ctx, repository.AccountFilter{OrderID: &order.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, day(2025, 1, 31), rows[0].DueDate.UTC())
	assert.Equal(t, "100.00", rows[0].Amount.StringFixed(2))
}

func TestOrderTransitionGuard(t *testing.T) {
	services, store := newTestServices(t)
	ctx := context.Background()

	order, err := services.Orders.Create(ctx, staff, OrderInput{
		Customer: CustomerSnapshot{Name: "Loja"},
		Items:    []OrderItemInput{{Description: "Serviço", Quantity: 1, UnitPrice: 100}},
	})
	require.NoError(t, err)

	_, err = services.Orders.Transition(ctx, admin, order.ID, model.OrderStatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	cancelled, err := services.Orders.Transition(ctx, staff, order.ID, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.NotNil(t, cancelled.CancelledAt)

	_, err = services.Orders.Transition(ctx, admin, order.ID, model.OrderStatusApproved)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	count, err := store.Accounts.CountReceivablesForOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestOrderDeleteOnlyPendingOrCancelled(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	order, err := services.Orders.Create(ctx, staff, OrderInput{
		Customer: CustomerSnapshot{Name: "Loja"},
		Items:    []OrderItemInput{{Description: "Serviço", Quantity: 1, UnitPrice: 100}},
	})
	require.NoError(t, err)
	_, err = services.Orders.Transition(ctx, admin, order.ID, model.OrderStatusApproved)
	require.NoError(t, err)

	assert.ErrorIs(t, services.Orders.Delete(ctx, staff, order.ID), ErrPermissionDenied)
	assert.ErrorIs(t, services.Orders.Delete(ctx, admin, order.ID), ErrInvalidTransition)
}

func TestOrderUpdateNotes(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	order, err := services.Orders.Create(ctx, staff, OrderInput{
		Customer: CustomerSnapshot{Name: "Loja"},
		Items:    []OrderItemInput{{Description: "Serviço", Quantity: 1, UnitPrice: 100}},
	})
	require.NoError(t, err)

	updated, err := services.Orders.Update(ctx, order.ID, OrderUpdateInput{Notes: ptr(" entregar sexta ")})
	require.NoError(t, err)
	assert.Equal(t, "entregar sexta", updated.Notes)
	assert.Equal(t, "100.00", updated.TotalAmount.StringFixed(2))
}
