package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/repository"
)

// CatalogService manages customers, suppliers and products.
type CatalogService struct {
	store *repository.Store
}

func NewCatalogService(store *repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

type PartyInput struct {
	Name     string
	Document string
	Email    string
	Phone    string
	Address  string
	City     string
	State    string
	Category string
	Notes    string
}

func (in PartyInput) normalize() (PartyInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	in.Document = digitsOnly(in.Document)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.State = strings.ToUpper(strings.TrimSpace(in.State))
	return in, nil
}

func (s *CatalogService) CreateCustomer(ctx context.Context, principal model.Principal, input PartyInput) (*model.Customer, error) {
	in, err := input.normalize()
	if err != nil {
		return nil, err
	}
	customer := &model.Customer{CreatedBy: &principal.UserID}
	applyCustomer(customer, in)
	if err := s.store.Customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CatalogService) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.store.Customers.Get(ctx, id)
	return customer, translate(err)
}

func (s *CatalogService) ListCustomers(ctx context.Context, search string, page repository.Page) ([]model.Customer, error) {
	return s.store.Customers.List(ctx, strings.TrimSpace(search), page)
}

func (s *CatalogService) UpdateCustomer(ctx context.Context, id uuid.UUID, input PartyInput) (*model.Customer, error) {
	in, err := input.normalize()
	if err != nil {
		return nil, err
	}
	customer, err := s.store.Customers.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	applyCustomer(customer, in)
	if err := s.store.Customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CatalogService) DeleteCustomer(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	return translate(s.store.Customers.Delete(ctx, id))
}

func applyCustomer(customer *model.Customer, in PartyInput) {
	customer.Name = in.Name
	customer.Document = in.Document
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.Address = in.Address
	customer.City = in.City
	customer.State = in.State
	customer.Notes = in.Notes
}

func (s *CatalogService) CreateSupplier(ctx context.Context, principal model.Principal, input PartyInput) (*model.Supplier, error) {
	in, err := input.normalize()
	if err != nil {
		return nil, err
	}
	supplier := &model.Supplier{CreatedBy: &principal.UserID}
	applySupplier(supplier, in)
	if err := s.store.Suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *CatalogService) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.store.Suppliers.Get(ctx, id)
	return supplier, translate(err)
}

func (s *CatalogService) ListSuppliers(ctx context.Context, search string, page repository.Page) ([]model.Supplier, error) {
	return s.store.Suppliers.List(ctx, strings.TrimSpace(search), page)
}

func (s *CatalogService) UpdateSupplier(ctx context.Context, id uuid.UUID, input PartyInput) (*model.Supplier, error) {
	in, err := input.normalize()
	if err != nil {
		return nil, err
	}
	supplier, err := s.store.Suppliers.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	applySupplier(supplier, in)
	if err := s.store.Suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *CatalogService) DeleteSupplier(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	return translate(s.store.Suppliers.Delete(ctx, id))
}

func applySupplier(supplier *model.Supplier, in PartyInput) {
	supplier.Name = in.Name
	supplier.Document = in.Document
	supplier.Email = in.Email
	supplier.Phone = in.Phone
	supplier.Address = in.Address
	supplier.City = in.City
	supplier.State = in.State
	supplier.Category = in.Category
	supplier.Notes = in.Notes
}

type ProductInput struct {
	Name        string
	SKU         string
	Description string
	UnitPrice   float64
	CostPrice   float64
	Unit        string
	Active      *bool
}

func (s *CatalogService) CreateProduct(ctx context.Context, principal model.Principal, input ProductInput) (*model.Product, error) {
	product := &model.Product{Active: true, CreatedBy: &principal.UserID}
	if err := s.applyProduct(ctx, product, input); err != nil {
		return nil, err
	}
	if err := s.store.Products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.store.Products.Get(ctx, id)
	return product, translate(err)
}

func (s *CatalogService) ListProducts(ctx context.Context, search string, page repository.Page) ([]model.Product, error) {
	return s.store.Products.List(ctx, strings.TrimSpace(search), page)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*model.Product, error) {
	product, err := s.store.Products.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if err := s.applyProduct(ctx, product, input); err != nil {
		return nil, err
	}
	if err := s.store.Products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	return translate(s.store.Products.Delete(ctx, id))
}

func (s *CatalogService) applyProduct(ctx context.Context, product *model.Product, in ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.ToUpper(strings.TrimSpace(in.SKU))
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.UnitPrice < 0 || in.CostPrice < 0 {
		return fmt.Errorf("%w: prices must not be negative", ErrInvalidInput)
	}
	if in.SKU == "" {
		in.SKU = "SKU-" + strings.ToUpper(uuid.NewString()[:8])
	}
	taken, err := s.store.Products.SKUTaken(ctx, in.SKU, product.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: sku %s already exists", ErrConflict, in.SKU)
	}

	product.Name = in.Name
	product.SKU = in.SKU
	product.Description = in.Description
	product.UnitPrice = decimal.NewFromFloat(in.UnitPrice).Round(2)
	product.CostPrice = decimal.NewFromFloat(in.CostPrice).Round(2)
	product.Unit = in.Unit
	if in.Active != nil {
		product.Active = *in.Active
	}
	return nil
}

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
