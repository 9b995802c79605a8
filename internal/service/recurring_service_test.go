package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/repository"
)

func TestRecurringGenerateIsIdempotent(t *testing.T) {
	services, store := newTestServices(t)
	ctx := context.Background()

	expense, err := services.Recurring.Create(ctx, admin, RecurringInput{
		Description: "Aluguel",
		Amount:      2500,
		DayOfMonth:  31,
		StartDate:   day(2024, 11, 5),
	})
	require.NoError(t, err)

	first, err := services.Recurring.Generate(ctx, day(2025, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, 4, first.Created)
	assert.Equal(t, 1, first.Definitions)

	rows, err := store.Accounts.ListPayables(ctx, repository.AccountFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, day(2024, 11, 30), rows[0].DueDate.UTC())
	assert.Equal(t, day(2024, 12, 31), rows[1].DueDate.UTC())
	assert.Equal(t, day(2025, 1, 31), rows[2].DueDate.UTC())
	assert.Equal(t, day(2025, 2, 28), rows[3].DueDate.UTC())
	assert.Equal(t, "2024-11", rows[0].Period)
	assert.Equal(t, expense.ID, *rows[0].RecurringExpenseID)

	second, err := services.Recurring.Generate(ctx, day(2025, 2, 20))
	require.NoError(t, err)
	assert.Zero(t, second.Created)

	stored, err := services.Recurring.Get(ctx, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-02", stored.LastGeneratedPeriod)
}

func TestRecurringGenerateRespectsStartAndEnd(t *testing.T) {
	services, store := newTestServices(t)
	ctx := context.Background()

	_, err := services.Recurring.Create(ctx, admin, RecurringInput{
		Description: "Internet",
		Amount:      99.9,
		DayOfMonth:  5,
		StartDate:   day(2024, 10, 20),
		EndDate:     ptr(day(2024, 12, 31)),
	})
	require.NoError(t, err)

	result, err := services.Recurring.Generate(ctx, day(2025, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)

	rows, err := store.Accounts.ListPayables(ctx, repository.AccountFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-11", rows[0].Period)
	assert.Equal(t, "2024-12", rows[1].Period)
	assert.Equal(t, model.PayableStatusPending, rows[0].Status)
}

func TestRecurringGenerateSkipsInactive(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	_, err := services.Recurring.Create(ctx, admin, RecurringInput{
		Description: "Pausado", Amount: 10, DayOfMonth: 1, StartDate: day(2024, 1, 1), Active: ptr(false),
	})
	require.NoError(t, err)

	result, err := services.Recurring.Generate(ctx, day(2025, 1, 1))
	require.NoError(t, err)
	assert.Zero(t, result.Definitions)
	assert.Zero(t, result.Created)
}

func TestRecurringValidation(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	for _, input := range []RecurringInput{
		{Description: "x", Amount: 10, DayOfMonth: 0, StartDate: day(2025, 1, 1)},
		{Description: "x", Amount: 10, DayOfMonth: 32, StartDate: day(2025, 1, 1)},
		{Description: "x", Amount: 10, DayOfMonth: 10},
		{Description: "x", Amount: 10, DayOfMonth: 10, StartDate: day(2025, 1, 1), EndDate: ptr(day(2024, 1, 1))},
	} {
		_, err := services.Recurring.Create(ctx, admin, input)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestPendingPeriods(t *testing.T) {
	def := model.RecurringExpense{StartDate: day(2024, 12, 10), LastGeneratedPeriod: "2025-01"}
	periods := pendingPeriods(def, time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC))
	require.Len(t, periods, 2)
	assert.Equal(t, day(2025, 2, 1), periods[0])
	assert.Equal(t, day(2025, 3, 1), periods[1])

	assert.Empty(t, pendingPeriods(model.RecurringExpense{StartDate: day(2025, 5, 1)}, day(2025, 3, 1)))
}
