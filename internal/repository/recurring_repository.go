package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestao-erp/erp-service/internal/model"
)

type RecurringRepository struct {
	db *gorm.DB
}

func (r *RecurringRepository) Create(ctx context.Context, expense *model.RecurringExpense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *RecurringRepository) Get(ctx context.Context, id uuid.UUID) (*model.RecurringExpense, error) {
	var expense model.RecurringExpense
	if err := r.db.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *RecurringRepository) Save(ctx context.Context, expense *model.RecurringExpense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *RecurringRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &model.RecurringExpense{}, id)
}

func (r *RecurringRepository) List(ctx context.Context, activeOnly bool, page Page) ([]model.RecurringExpense, error) {
	q := r.db.WithContext(ctx).Order("description ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var rows []model.RecurringExpense
	if err := page.apply(q).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActive returns every active definition, unpaginated, for a generation run.
func (r *RecurringRepository) ListActive(ctx context.Context) ([]model.RecurringExpense, error) {
	var rows []model.RecurringExpense
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
