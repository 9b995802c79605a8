package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gestao-erp/erp-service/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func (r *ReportRepository) ReceivableTotals(ctx context.Context) ([]model.StatusTotal, error) {
	return r.statusTotals(ctx, "account_receivables")
}

func (r *ReportRepository) PayableTotals(ctx context.Context) ([]model.StatusTotal, error) {
	return r.statusTotals(ctx, "account_payables")
}

func (r *ReportRepository) OrderCounts(ctx context.Context) ([]model.StatusCount, error) {
	return r.statusCounts(ctx, "orders")
}

func (r *ReportRepository) BudgetCounts(ctx context.Context) ([]model.StatusCount, error) {
	return r.statusCounts(ctx, "budgets")
}

func (r *ReportRepository) statusTotals(ctx context.Context, table string) ([]model.StatusTotal, error) {
	var rows []model.StatusTotal
	if err := r.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total
		FROM ` + table + `
		GROUP BY status
		ORDER BY status ASC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) statusCounts(ctx context.Context, table string) ([]model.StatusCount, error) {
	var rows []model.StatusCount
	if err := r.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) AS count
		FROM ` + table + `
		GROUP BY status
		ORDER BY status ASC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// PayablesDue lists payables due in [from, to], both ends inclusive.
func (r *ReportRepository) PayablesDue(ctx context.Context, from, to time.Time) ([]model.AccountPayable, error) {
	var rows []model.AccountPayable
	err := r.db.WithContext(ctx).
		Where("due_date >= ? AND due_date <= ?", from, to).
		Order("due_date ASC, installment_number ASC").
		Find(&rows).Error
	return rows, err
}

func (r *ReportRepository) ReceivablesDue(ctx context.Context, from, to time.Time) ([]model.AccountReceivable, error) {
	var rows []model.AccountReceivable
	err := r.db.WithContext(ctx).
		Where("due_date >= ? AND due_date <= ?", from, to).
		Order("due_date ASC, installment_number ASC").
		Find(&rows).Error
	return rows, err
}

func (r *ReportRepository) ProjectsDue(ctx context.Context, from, to time.Time) ([]model.Project, error) {
	var rows []model.Project
	err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date >= ? AND due_date <= ?", from, to).
		Order("due_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *ReportRepository) TasksDue(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	var rows []model.Task
	err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date >= ? AND due_date <= ?", from, to).
		Order("due_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *ReportRepository) BudgetsExpiring(ctx context.Context, from, to time.Time) ([]model.Budget, error) {
	var rows []model.Budget
	err := r.db.WithContext(ctx).
		Where("valid_until IS NOT NULL AND valid_until >= ? AND valid_until <= ?", from, to).
		Order("valid_until ASC").
		Find(&rows).Error
	return rows, err
}
