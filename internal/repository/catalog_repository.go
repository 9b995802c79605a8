package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/gestao-erp/erp-service/internal/model"
)

type CustomerRepository struct {
	entityRepository[model.Customer]
}

func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	return r.create(ctx, customer)
}

func (r *CustomerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return r.get(ctx, id)
}

func (r *CustomerRepository) Save(ctx context.Context, customer *model.Customer) error {
	return r.save(ctx, customer)
}

func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, id)
}

func (r *CustomerRepository) List(ctx context.Context, search string, page Page) ([]model.Customer, error) {
	return r.search(ctx, search, page)
}

type SupplierRepository struct {
	entityRepository[model.Supplier]
}

func (r *SupplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	return r.create(ctx, supplier)
}

func (r *SupplierRepository) Get(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	return r.get(ctx, id)
}

func (r *SupplierRepository) Save(ctx context.Context, supplier *model.Supplier) error {
	return r.save(ctx, supplier)
}

func (r *SupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, id)
}

func (r *SupplierRepository) List(ctx context.Context, search string, page Page) ([]model.Supplier, error) {
	return r.search(ctx, search, page)
}

type ProductRepository struct {
	entityRepository[model.Product]
}

func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	return r.create(ctx, product)
}

func (r *ProductRepository) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.get(ctx, id)
}

func (r *ProductRepository) Save(ctx context.Context, product *model.Product) error {
	return r.save(ctx, product)
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, id)
}

func (r *ProductRepository) List(ctx context.Context, search string, page Page) ([]model.Product, error) {
	return r.search(ctx, search, page)
}

func (r *ProductRepository) SKUTaken(ctx context.Context, sku string, except uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("sku = ? AND id <> ?", sku, except).
		Count(&count).Error
	return count > 0, err
}
