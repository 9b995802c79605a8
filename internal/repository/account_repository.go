package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestao-erp/erp-service/internal/model"
)

type AccountRepository struct {
	db *gorm.DB
}

type AccountFilter struct {
	Status   string
	DueFrom  *time.Time
	DueTo    *time.Time
	ParentID *uuid.UUID
	PartyID  *uuid.UUID
	OrderID  *uuid.UUID
	Page     Page
}

// CreatePayables inserts a batch of rows in one statement so installments of one
// amount land together.
func (r *AccountRepository) CreatePayables(ctx context.Context, rows []model.AccountPayable) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *AccountRepository) CreateReceivables(ctx context.Context, rows []model.AccountReceivable) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *AccountRepository) GetPayable(ctx context.Context, id uuid.UUID) (*model.AccountPayable, error) {
	var row model.AccountPayable
	if err := forUpdate(r.db.WithContext(ctx)).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *AccountRepository) GetReceivable(ctx context.Context, id uuid.UUID) (*model.AccountReceivable, error) {
	var row model.AccountReceivable
	if err := forUpdate(r.db.WithContext(ctx)).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *AccountRepository) SavePayable(ctx context.Context, row *model.AccountPayable) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *AccountRepository) SaveReceivable(ctx context.Context, row *model.AccountReceivable) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *AccountRepository) DeletePayable(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &model.AccountPayable{}, id)
}

func (r *AccountRepository) DeleteReceivable(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &model.AccountReceivable{}, id)
}

func (r *AccountRepository) ListPayables(ctx context.Context, filter AccountFilter) ([]model.AccountPayable, error) {
	q := applyAccountFilter(r.db.WithContext(ctx), filter, "supplier_id")
	var rows []model.AccountPayable
	if err := filter.Page.apply(q).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AccountRepository) ListReceivables(ctx context.Context, filter AccountFilter) ([]model.AccountReceivable, error) {
	q := applyAccountFilter(r.db.WithContext(ctx), filter, "customer_id")
	if filter.OrderID != nil {
		q = q.Where("order_id = ?", *filter.OrderID)
	}
	var rows []model.AccountReceivable
	if err := filter.Page.apply(q).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkPayablesOverdue flags every pending payable due strictly before asOf.
func (r *AccountRepository) MarkPayablesOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.AccountPayable{}).
		Where("status = ? AND due_date < ?", model.PayableStatusPending, asOf).
		Update("status", model.PayableStatusOverdue)
	return res.RowsAffected, res.Error
}

func (r *AccountRepository) MarkReceivablesOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.AccountReceivable{}).
		Where("status = ? AND due_date < ?", model.ReceivableStatusPending, asOf).
		Update("status", model.ReceivableStatusOverdue)
	return res.RowsAffected, res.Error
}

func (r *AccountRepository) RecurringPeriodExists(ctx context.Context, recurringID uuid.UUID, period string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AccountPayable{}).
		Where("recurring_expense_id = ? AND period = ?", recurringID, period).
		Count(&count).Error
	return count > 0, err
}

// CancelOpenReceivablesForOrder cancels the pending and overdue receivables
// billed for an order. Settled rows are kept.
func (r *AccountRepository) CancelOpenReceivablesForOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.AccountReceivable{}).
		Where("order_id = ? AND status IN ?", orderID,
			[]model.ReceivableStatus{model.ReceivableStatusPending, model.ReceivableStatusOverdue}).
		Update("status", model.ReceivableStatusCancelled)
	return res.RowsAffected, res.Error
}

func (r *AccountRepository) CountReceivablesForOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AccountReceivable{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count, err
}

func applyAccountFilter(q *gorm.DB, filter AccountFilter, partyColumn string) *gorm.DB {
	q = q.Order("due_date ASC, installment_number ASC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DueFrom != nil {
		q = q.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		q = q.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.ParentID != nil {
		q = q.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.PartyID != nil {
		q = q.Where(partyColumn+" = ?", *filter.PartyID)
	}
	return q
}

func deleteByID(ctx context.Context, db *gorm.DB, value any, id uuid.UUID) error {
	res := db.WithContext(ctx).Delete(value, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
