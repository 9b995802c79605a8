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
	"github.com/gestao-erp/erp-service/internal/lock"
	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/repository"
	"github.com/gestao-erp/erp-service/internal/workflow"
)

type OrderService struct {
	store  *repository.Store
	cfg    *config.Config
	locker lock.Locker
	log    zerolog.Logger
	now    func() time.Time
}

func NewOrderService(store *repository.Store, cfg *config.Config, locker lock.Locker, log zerolog.Logger, now func() time.Time) *OrderService {
	return &OrderService{store: store, cfg: cfg, locker: locker, log: log, now: now}
}

type OrderItemInput struct {
	ProductID   *uuid.UUID
	Description string
	Quantity    float64
	UnitPrice   float64
}

type OrderInput struct {
	Customer     CustomerSnapshot
	Items        []OrderItemInput
	Costs        *finance.CostInputs
	SimplesRate  *float64
	FirstDueDate *time.Time
	Notes        string
}

type OrderUpdateInput struct {
	FirstDueDate *time.Time
	Notes        *string
}

type OrderFilter = repository.OrderFilter

func (s *OrderService) Create(ctx context.Context, principal model.Principal, input OrderInput) (*model.Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}
	snapshot, err := s.resolveCustomer(ctx, input.Customer)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		CustomerID:       snapshot.CustomerID,
		CustomerName:     snapshot.Name,
		CustomerEmail:    snapshot.Email,
		CustomerPhone:    snapshot.Phone,
		CustomerDocument: snapshot.Document,
		Status:           model.OrderStatusPending,
		FirstDueDate:     dateOnlyPtr(input.FirstDueDate),
		Notes:            strings.TrimSpace(input.Notes),
		CreatedBy:        principal.UserID,
	}

	total := decimal.Zero
	for i, in := range input.Items {
		item, err := s.buildItem(ctx, i, in)
		if err != nil {
			return nil, err
		}
		total = total.Add(item.Subtotal)
		order.Items = append(order.Items, item)
	}
	order.TotalAmount = total.Round(2)

	simples := s.cfg.Tax.SimplesRate
	if input.SimplesRate != nil {
		simples = *input.SimplesRate
	}
	var costs finance.CostInputs
	if input.Costs != nil {
		costs = *input.Costs
	}
	applyOrderCosts(order, costs, simples)

	if err := s.store.Orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// buildItem fills description and price from the product when the line leaves
// them empty.
func (s *OrderService) buildItem(ctx context.Context, index int, in OrderItemInput) (model.OrderItem, error) {
	item := model.OrderItem{
		ProductID:   in.ProductID,
		Description: strings.TrimSpace(in.Description),
		Quantity:    decimal.NewFromFloat(in.Quantity).Round(3),
		UnitPrice:   finance.Cents(in.UnitPrice),
	}
	if !item.Quantity.IsPositive() {
		return item, fmt.Errorf("%w: item %d quantity must be positive", ErrInvalidInput, index+1)
	}
	if item.UnitPrice.IsNegative() {
		return item, fmt.Errorf("%w: item %d unit price cannot be negative", ErrInvalidInput, index+1)
	}
	if in.ProductID != nil {
		product, err := s.store.Products.Get(ctx, *in.ProductID)
		if err != nil {
			if errors.Is(translate(err), ErrNotFound) {
				return item, fmt.Errorf("%w: product %s does not exist", ErrInvalidInput, in.ProductID)
			}
			return item, err
		}
		if item.Description == "" {
			item.Description = product.Name
		}
		if item.UnitPrice.IsZero() {
			item.UnitPrice = product.UnitPrice
		}
	}
	if item.Description == "" {
		return item, fmt.Errorf("%w: item %d description is required", ErrInvalidInput, index+1)
	}
	item.Subtotal = item.Quantity.Mul(item.UnitPrice).Round(2)
	return item, nil
}

func (s *OrderService) resolveCustomer(ctx context.Context, snapshot CustomerSnapshot) (CustomerSnapshot, error) {
	return resolveCustomerWith(ctx, s.store, snapshot)
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.store.Orders.Get(ctx, id)
	return order, translate(err)
}

func (s *OrderService) List(ctx context.Context, filter OrderFilter) ([]model.Order, error) {
	if filter.Status != "" && !workflow.Order.Known(filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	return s.store.Orders.List(ctx, filter)
}

// Update changes notes and the first due date only. Items and totals are fixed
// once the order exists.
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, input OrderUpdateInput) (*model.Order, error) {
	order, err := s.store.Orders.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if input.Notes != nil {
		order.Notes = strings.TrimSpace(*input.Notes)
	}
	if input.FirstDueDate != nil {
		order.FirstDueDate = dateOnlyPtr(input.FirstDueDate)
	}
	if err := s.store.Orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	order, err := s.store.Orders.Get(ctx, id)
	if err != nil {
		return translate(err)
	}
	if order.Status != model.OrderStatusPending && order.Status != model.OrderStatusCancelled {
		return fmt.Errorf("%w: cannot delete a %s order", ErrInvalidTransition, order.Status)
	}
	return translate(s.store.Orders.Delete(ctx, id))
}

// Transition moves the order to target. Approval writes the status and every
// receivable installment in one transaction, so either all of them exist or
// none do. Cancelling cancels the receivables still open in the same
// transaction.
func (s *OrderService) Transition(ctx context.Context, principal model.Principal, id uuid.UUID, target model.OrderStatus) (*model.Order, error) {
	if target == model.OrderStatusApproved && !principal.CanApprove() {
		return nil, ErrPermissionDenied
	}

	release, err := s.locker.Obtain(ctx, "order:"+id.String())
	if err != nil {
		if errors.Is(err, lock.ErrNotObtained) {
			return nil, fmt.Errorf("%w: order %s is being updated", ErrConflict, id)
		}
		return nil, err
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			s.log.Warn().Err(err).Str("order_id", id.String()).Msg("failed to release order lock")
		}
	}()

	var (
		from        model.OrderStatus
		receivables []model.AccountReceivable
		cancelled   int64
	)
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		order, err := tx.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return translate(err)
		}
		from = order.Status
		if err := workflow.Order.Check(order.Status, target); err != nil {
			return translate(err)
		}
		if order.Status == target {
			return nil
		}

		now := s.now()
		switch target {
		case model.OrderStatusApproved:
			order.ApprovedAt = &now
		case model.OrderStatusCompleted:
			order.CompletedAt = &now
		case model.OrderStatusCancelled:
			order.CancelledAt = &now
		}
		order.Status = target
		if err := tx.Orders.Save(ctx, order); err != nil {
			return err
		}

		switch target {
		case model.OrderStatusApproved:
			receivables, err = s.receivablesFor(ctx, tx, order, principal, now)
			if err != nil {
				return err
			}
			return tx.Accounts.CreateReceivables(ctx, receivables)
		case model.OrderStatusCancelled:
			cancelled, err = tx.Accounts.CancelOpenReceivablesForOrder(ctx, order.ID)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if from != target {
		event := s.log.Info().
			Str("order_id", id.String()).
			Str("from", string(from)).
			Str("to", string(target)).
			Str("user_id", principal.UserID.String())
		if len(receivables) > 0 {
			event = event.Int("receivables", len(receivables))
		}
		if cancelled > 0 {
			event = event.Int64("receivables_cancelled", cancelled)
		}
		event.Msg("order status changed")
	}
	return s.Get(ctx, id)
}

// receivablesFor builds the installments billed when an order is approved. The
// count comes from the originating budget.
func (s *OrderService) receivablesFor(ctx context.Context, tx *repository.Store, order *model.Order, principal model.Principal, approvedAt time.Time) ([]model.AccountReceivable, error) {
	count := 1
	if order.BudgetID != nil {
		budget, err := tx.Budgets.Get(ctx, *order.BudgetID)
		switch {
		case err == nil:
			if count, err = installmentCount(budget.Installments); err != nil {
				return nil, err
			}
		case errors.Is(translate(err), ErrNotFound):
		default:
			return nil, err
		}
	}

	firstDue := dateOnly(approvedAt).AddDate(0, 0, s.cfg.Billing.PaymentTermDays)
	if order.FirstDueDate != nil {
		firstDue = dateOnly(*order.FirstDueDate)
	}

	label := order.CustomerName
	if label == "" {
		label = order.ID.String()[:8]
	}
	description := fmt.Sprintf("Pedido %s - %s", order.ID.String()[:8], label)

	plan := finance.Split(order.TotalAmount, firstDue, count)
	rows := make([]model.AccountReceivable, len(plan))
	parentID := uuid.New()
	for i, inst := range plan {
		rows[i] = model.AccountReceivable{
			Description:       installmentDescription(description, inst),
			Amount:            inst.Amount,
			DueDate:           inst.DueDate,
			Status:            model.ReceivableStatusPending,
			Category:          "vendas",
			CustomerID:        order.CustomerID,
			OrderID:           &order.ID,
			InstallmentNumber: inst.Number,
			TotalInstallments: inst.Total,
			ParentID:          &parentID,
			CreatedBy:         &principal.UserID,
		}
	}
	rows[0].ID = parentID
	return rows, nil
}

func installmentDescription(description string, inst finance.Installment) string {
	if inst.Total == 1 {
		return description
	}
	return fmt.Sprintf("%s (parcela %d/%d)", description, inst.Number, inst.Total)
}

// applyOrderCosts stores the Simples Nacional breakdown. Orders without cost
// inputs keep a zero breakdown.
func applyOrderCosts(order *model.Order, costs finance.CostInputs, simplesRate float64) {
	costs = costs.Normalized()
	result := finance.CalculateOrder(costs, simplesRate)

	order.LaborHours = decimal.NewFromFloat(costs.LaborHours).Round(4)
	order.LaborRate = finance.Cents(costs.LaborRate)
	order.MaterialCost = finance.Cents(costs.MaterialCost)
	order.ThirdPartyCost = finance.Cents(costs.ThirdPartyCost)
	order.OtherDirectCosts = finance.Cents(costs.OtherDirectCosts)
	order.IndirectCostsTotal = finance.Cents(costs.IndirectCostsTotal)
	order.ProfitMargin = decimal.NewFromFloat(costs.ProfitMargin).Round(4)
	order.SimplesRate = decimal.NewFromFloat(simplesRate).Round(4)

	order.LaborCost = finance.Cents(result.LaborCost)
	order.TotalCosts = finance.Cents(result.TotalCosts)
	order.GrossValue = finance.Cents(result.GrossValue)
	order.SimplesAmount = finance.Cents(result.SimplesAmount)
	order.NetProfit = finance.Cents(result.NetProfit)
}
