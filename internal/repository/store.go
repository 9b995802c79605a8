package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gestao-erp/erp-service/internal/model"
)

// Store groups the repositories over one connection or one transaction.
type Store struct {
	db *gorm.DB

	Customers *CustomerRepository
	Suppliers *SupplierRepository
	Products  *ProductRepository
	Budgets   *BudgetRepository
	Orders    *OrderRepository
	Accounts  *AccountRepository
	Recurring *RecurringRepository
	Projects  *ProjectRepository
	Tasks     *TaskRepository
	Reports   *ReportRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Customers: &CustomerRepository{entityRepository[model.Customer]{db: db}},
		Suppliers: &SupplierRepository{entityRepository[model.Supplier]{db: db}},
		Products:  &ProductRepository{entityRepository[model.Product]{db: db}},
		Budgets:   &BudgetRepository{db: db},
		Orders:    &OrderRepository{db: db},
		Accounts:  &AccountRepository{db: db},
		Recurring: &RecurringRepository{db: db},
		Projects:  &ProjectRepository{db: db},
		Tasks:     &TaskRepository{db: db},
		Reports:   &ReportRepository{db: db},
	}
}

// Transaction runs fn against a Store bound to one database transaction. Every
// write fn makes commits or rolls back together.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

type Page struct {
	Limit  int
	Offset int
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	limit := p.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	return q.Limit(limit).Offset(offset)
}

func forUpdate(q *gorm.DB) *gorm.DB {
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

// entityRepository carries the plain CRUD shared by catalog tables.
type entityRepository[T any] struct {
	db *gorm.DB
}

func (r entityRepository[T]) create(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r entityRepository[T]) get(ctx context.Context, id uuid.UUID) (*T, error) {
	var row T
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r entityRepository[T]) save(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(row).Error
}

func (r entityRepository[T]) delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r entityRepository[T]) search(ctx context.Context, term string, page Page) ([]T, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if term != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	var rows []T
	if err := page.apply(q).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
