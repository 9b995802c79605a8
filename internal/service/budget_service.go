package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gestao-erp/erp-service/internal/config"
	"github.com/gestao-erp/erp-service/internal/finance"
	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/repository"
	"github.com/gestao-erp/erp-service/internal/workflow"
)

type PDFGenerator interface {
	Generate(budget model.Budget) ([]byte, error)
}

type BudgetService struct {
	store *repository.Store
	tax   config.TaxConfig
	pdf   PDFGenerator
	log   zerolog.Logger
	now   func() time.Time
}

func NewBudgetService(store *repository.Store, tax config.TaxConfig, pdf PDFGenerator, log zerolog.Logger, now func() time.Time) *BudgetService {
	return &BudgetService{store: store, tax: tax, pdf: pdf, log: log, now: now}
}

// CustomerSnapshot is copied onto quotes and orders so they keep the data the
// customer had when the document was issued.
type CustomerSnapshot struct {
	CustomerID *uuid.UUID
	Name       string
	Email      string
	Phone      string
	Document   string
}

type BudgetInput struct {
	Customer     CustomerSnapshot
	Title        string
	Description  string
	Costs        finance.CostInputs
	CBSRate      *float64
	IBSRate      *float64
	IRPJRate     *float64
	CSLLRate     *float64
	Installments int
	ValidUntil   *time.Time
}

type BudgetFilter = repository.BudgetFilter

// Preview runs the calculator without storing anything. Missing rates come
// from the configured defaults.
func (s *BudgetService) Preview(input BudgetInput) finance.BudgetBreakdown {
	return finance.CalculateBudget(input.Costs.Normalized(), s.rates(input, nil))
}

func (s *BudgetService) Create(ctx context.Context, principal model.Principal, input BudgetInput) (*model.Budget, error) {
	snapshot, err := s.resolveCustomer(ctx, input.Customer)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	installments, err := installmentCount(input.Installments)
	if err != nil {
		return nil, err
	}

	budget := &model.Budget{
		Status:    model.BudgetStatusDraft,
		CreatedBy: principal.UserID,
	}
	applySnapshotToBudget(budget, snapshot)
	budget.Title = title
	budget.Description = input.Description
	budget.Installments = installments
	budget.ValidUntil = dateOnlyPtr(input.ValidUntil)
	applyBudgetCosts(budget, input.Costs, s.rates(input, nil))

	if err := s.store.Budgets.Create(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// Update replaces the inputs of a draft or sent quote and recomputes every
// derived amount. Rates left empty keep the ones stored on the quote.
func (s *BudgetService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input BudgetInput) (*model.Budget, error) {
	var updated *model.Budget
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		budget, err := tx.Budgets.GetForUpdate(ctx, id)
		if err != nil {
			return translate(err)
		}
		if !budget.IsEditable() {
			return fmt.Errorf("%w: budget is %s", ErrInvalidTransition, budget.Status)
		}

		snapshot, err := resolveCustomerWith(ctx, tx, input.Customer)
		if err != nil {
			return err
		}
		title := strings.TrimSpace(input.Title)
		if title == "" {
			return fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		installments, err := installmentCount(input.Installments)
		if err != nil {
			return err
		}

		applySnapshotToBudget(budget, snapshot)
		budget.Title = title
		budget.Description = input.Description
		budget.Installments = installments
		budget.ValidUntil = dateOnlyPtr(input.ValidUntil)
		applyBudgetCosts(budget, input.Costs, s.rates(input, budget))

		if err := tx.Budgets.Save(ctx, budget); err != nil {
			return err
		}
		updated = budget
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *BudgetService) Get(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	budget, err := s.store.Budgets.Get(ctx, id)
	return budget, translate(err)
}

func (s *BudgetService) List(ctx context.Context, filter BudgetFilter) ([]model.Budget, error) {
	if filter.Status != "" && !workflow.Budget.Known(filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	return s.store.Budgets.List(ctx, filter)
}

func (s *BudgetService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	return translate(s.store.Budgets.Delete(ctx, id))
}

func (s *BudgetService) Transition(ctx context.Context, principal model.Principal, id uuid.UUID, target model.BudgetStatus) (*model.Budget, error) {
	if (target == model.BudgetStatusApproved || target == model.BudgetStatusRejected) && !principal.CanApprove() {
		return nil, ErrPermissionDenied
	}

	var result *model.Budget
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		budget, err := tx.Budgets.GetForUpdate(ctx, id)
		if err != nil {
			return translate(err)
		}
		if err := workflow.Budget.Check(budget.Status, target); err != nil {
			return translate(err)
		}
		result = budget
		if budget.Status == target {
			return nil
		}

		now := s.now()
		switch target {
		case model.BudgetStatusSent:
			budget.SentAt = &now
		case model.BudgetStatusApproved, model.BudgetStatusRejected:
			budget.DecidedAt = &now
		}
		budget.Status = target
		return tx.Budgets.Save(ctx, budget)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConvertToOrder turns an approved quote into a pending order. A quote converts
// at most once.
func (s *BudgetService) ConvertToOrder(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error) {
	var order *model.Order
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		budget, err := tx.Budgets.GetForUpdate(ctx, id)
		if err != nil {
			return translate(err)
		}
		if budget.Status != model.BudgetStatusApproved {
			return fmt.Errorf("%w: only approved budgets can be converted", ErrInvalidTransition)
		}
		if budget.ConvertedOrderID != nil {
			return fmt.Errorf("%w: budget already converted to order %s", ErrConflict, budget.ConvertedOrderID)
		}

		order = orderFromBudget(budget, s.tax.SimplesRate, principal)
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}
		budget.ConvertedOrderID = &order.ID
		return tx.Budgets.Save(ctx, budget)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("budget_id", id.String()).Str("order_id", order.ID.String()).Msg("budget converted to order")
	return order, nil
}

func (s *BudgetService) ConvertToProject(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Project, error) {
	var project *model.Project
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		budget, err := tx.Budgets.GetForUpdate(ctx, id)
		if err != nil {
			return translate(err)
		}
		if budget.Status != model.BudgetStatusApproved {
			return fmt.Errorf("%w: only approved budgets can be converted", ErrInvalidTransition)
		}
		if budget.ConvertedProjectID != nil {
			return fmt.Errorf("%w: budget already converted to project %s", ErrConflict, budget.ConvertedProjectID)
		}

		project = &model.Project{
			Name:         budget.Title,
			Description:  budget.Description,
			CustomerID:   budget.CustomerID,
			BudgetID:     &budget.ID,
			Status:       model.ProjectStatusProject,
			AutoProgress: true,
			Value:        budget.FinalPrice,
			CreatedBy:    principal.UserID,
		}
		if err := tx.Projects.Create(ctx, project); err != nil {
			return err
		}
		budget.ConvertedProjectID = &project.ID
		return tx.Budgets.Save(ctx, budget)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("budget_id", id.String()).Str("project_id", project.ID.String()).Msg("budget converted to project")
	return project, nil
}

func (s *BudgetService) ExportPDF(ctx context.Context, id uuid.UUID) (*FileResult, error) {
	budget, err := s.store.Budgets.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	content, err := s.pdf.Generate(*budget)
	if err != nil {
		return nil, err
	}
	name := sanitizeFileName(budget.Title)
	if name == "" {
		name = budget.ID.String()
	}
	return &FileResult{
		FileName: fmt.Sprintf("orcamento-%s-%s.pdf", name, budget.CreatedAt.Format("20060102")),
		Content:  content,
	}, nil
}

func (s *BudgetService) resolveCustomer(ctx context.Context, snapshot CustomerSnapshot) (CustomerSnapshot, error) {
	return resolveCustomerWith(ctx, s.store, snapshot)
}

// resolveCustomerWith fills the snapshot from the customer record when an id is
// given; otherwise the inline name is required.
func resolveCustomerWith(ctx context.Context, store *repository.Store, snapshot CustomerSnapshot) (CustomerSnapshot, error) {
	if snapshot.CustomerID != nil {
		customer, err := store.Customers.Get(ctx, *snapshot.CustomerID)
		if err != nil {
			if errors.Is(translate(err), ErrNotFound) {
				return snapshot, fmt.Errorf("%w: customer %s does not exist", ErrInvalidInput, snapshot.CustomerID)
			}
			return snapshot, err
		}
		return CustomerSnapshot{
			CustomerID: &customer.ID,
			Name:       customer.Name,
			Email:      customer.Email,
			Phone:      customer.Phone,
			Document:   customer.Document,
		}, nil
	}
	snapshot.Name = strings.TrimSpace(snapshot.Name)
	if snapshot.Name == "" {
		return snapshot, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	snapshot.Document = digitsOnly(snapshot.Document)
	return snapshot, nil
}

// rates resolves each tax rate: explicit input first, then the rate stored on
// an existing quote, then the configured default.
func (s *BudgetService) rates(input BudgetInput, existing *model.Budget) finance.BudgetRates {
	pick := func(in *float64, stored decimal.Decimal, def float64) float64 {
		if in != nil {
			return *in
		}
		if existing != nil {
			return stored.InexactFloat64()
		}
		return def
	}
	var cbs, ibs, irpj, csll decimal.Decimal
	if existing != nil {
		cbs, ibs, irpj, csll = existing.CBSRate, existing.IBSRate, existing.IRPJRate, existing.CSLLRate
	}
	return finance.BudgetRates{
		CBS:  pick(input.CBSRate, cbs, s.tax.CBSRate),
		IBS:  pick(input.IBSRate, ibs, s.tax.IBSRate),
		IRPJ: pick(input.IRPJRate, irpj, s.tax.IRPJRate),
		CSLL: pick(input.CSLLRate, csll, s.tax.CSLLRate),
	}
}

func applySnapshotToBudget(budget *model.Budget, snapshot CustomerSnapshot) {
	budget.CustomerID = snapshot.CustomerID
	budget.CustomerName = snapshot.Name
	budget.CustomerEmail = snapshot.Email
	budget.CustomerPhone = snapshot.Phone
	budget.CustomerDocument = snapshot.Document
}

// applyBudgetCosts stores the inputs and every derived amount rounded to cents.
// The breakdown is computed from the inputs as stored.
func applyBudgetCosts(budget *model.Budget, costs finance.CostInputs, rates finance.BudgetRates) {
	costs = costs.Normalized()
	result := finance.CalculateBudget(costs, rates)

	budget.LaborHours = decimal.NewFromFloat(costs.LaborHours).Round(4)
	budget.LaborRate = finance.Cents(costs.LaborRate)
	budget.MaterialCost = finance.Cents(costs.MaterialCost)
	budget.ThirdPartyCost = finance.Cents(costs.ThirdPartyCost)
	budget.OtherDirectCosts = finance.Cents(costs.OtherDirectCosts)
	budget.IndirectCostsTotal = finance.Cents(costs.IndirectCostsTotal)
	budget.ProfitMargin = decimal.NewFromFloat(costs.ProfitMargin).Round(4)

	budget.CBSRate = decimal.NewFromFloat(rates.CBS).Round(4)
	budget.IBSRate = decimal.NewFromFloat(rates.IBS).Round(4)
	budget.IRPJRate = decimal.NewFromFloat(rates.IRPJ).Round(4)
	budget.CSLLRate = decimal.NewFromFloat(rates.CSLL).Round(4)

	budget.LaborCost = finance.Cents(result.LaborCost)
	budget.TotalDirectCosts = finance.Cents(result.TotalDirectCosts)
	budget.TotalCosts = finance.Cents(result.TotalCosts)
	budget.GrossValue = finance.Cents(result.GrossValue)
	budget.CBSAmount = finance.Cents(result.CBSAmount)
	budget.IBSAmount = finance.Cents(result.IBSAmount)
	budget.NetRevenue = finance.Cents(result.NetRevenue)
	budget.ProfitBeforeTaxes = finance.Cents(result.ProfitBeforeTaxes)
	budget.IRPJAmount = finance.Cents(result.IRPJAmount)
	budget.CSLLAmount = finance.Cents(result.CSLLAmount)
	budget.NetProfit = finance.Cents(result.NetProfit)
	budget.FinalPrice = finance.Cents(result.FinalPrice)
}

func budgetCostInputs(budget *model.Budget) finance.CostInputs {
	return finance.CostInputs{
		LaborHours:         budget.LaborHours.InexactFloat64(),
		LaborRate:          budget.LaborRate.InexactFloat64(),
		MaterialCost:       budget.MaterialCost.InexactFloat64(),
		ThirdPartyCost:     budget.ThirdPartyCost.InexactFloat64(),
		OtherDirectCosts:   budget.OtherDirectCosts.InexactFloat64(),
		IndirectCostsTotal: budget.IndirectCostsTotal.InexactFloat64(),
		ProfitMargin:       budget.ProfitMargin.InexactFloat64(),
	}
}

func orderFromBudget(budget *model.Budget, simplesRate float64, principal model.Principal) *model.Order {
	order := &model.Order{
		BudgetID:         &budget.ID,
		CustomerID:       budget.CustomerID,
		CustomerName:     budget.CustomerName,
		CustomerEmail:    budget.CustomerEmail,
		CustomerPhone:    budget.CustomerPhone,
		CustomerDocument: budget.CustomerDocument,
		Status:           model.OrderStatusPending,
		Notes:            budget.Description,
		CreatedBy:        principal.UserID,
		Items: []model.OrderItem{{
			Description: budget.Title,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   budget.FinalPrice,
			Subtotal:    budget.FinalPrice,
		}},
		TotalAmount: budget.FinalPrice,
	}
	applyOrderCosts(order, budgetCostInputs(budget), simplesRate)
	return order
}

// installmentCount coerces a missing count to 1 and rejects counts above
// finance.MaxInstallments.
func installmentCount(n int) (int, error) {
	if n < 1 {
		return 1, nil
	}
	if n > finance.MaxInstallments {
		return 0, fmt.Errorf("%w: at most %d installments", ErrInvalidInput, finance.MaxInstallments)
	}
	return n, nil
}
