package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestao-erp/erp-service/internal/model"
)

type BudgetRepository struct {
	db *gorm.DB
}

type BudgetFilter struct {
	Status     model.BudgetStatus
	CustomerID *uuid.UUID
	Page       Page
}

func (r *BudgetRepository) Create(ctx context.Context, budget *model.Budget) error {
	return r.db.WithContext(ctx).Create(budget).Error
}

func (r *BudgetRepository) Get(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	var budget model.Budget
	if err := r.db.WithContext(ctx).First(&budget, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

// GetForUpdate locks the row until the surrounding transaction ends.
func (r *BudgetRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	var budget model.Budget
	if err := forUpdate(r.db.WithContext(ctx)).First(&budget, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *BudgetRepository) Save(ctx context.Context, budget *model.Budget) error {
	return r.db.WithContext(ctx).Save(budget).Error
}

func (r *BudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Budget{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BudgetRepository) List(ctx context.Context, filter BudgetFilter) ([]model.Budget, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	var budgets []model.Budget
	if err := filter.Page.apply(q).Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}
