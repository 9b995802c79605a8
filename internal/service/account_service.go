package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestao-erp/erp-service/internal/finance"
	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/repository"
	"github.com/gestao-erp/erp-service/internal/workflow"
)

// AccountService manages payables and receivables. Rows split from one amount
// are independent after creation: settling one never touches its siblings.
type AccountService struct {
	store *repository.Store
	now   func() time.Time
}

func NewAccountService(store *repository.Store, now func() time.Time) *AccountService {
	return &AccountService{store: store, now: now}
}

type AccountInput struct {
	Description  string
	Amount       float64
	DueDate      time.Time
	Category     string
	PartyID      *uuid.UUID
	OrderID      *uuid.UUID
	Installments int
	Notes        string
}

type AccountUpdateInput struct {
	Description *string
	Amount      *float64
	DueDate     *time.Time
	Category    *string
	Notes       *string
}

type AccountFilter = repository.AccountFilter

type OverdueResult struct {
	Payables    int64 `json:"payables"`
	Receivables int64 `json:"receivables"`
}

func (in AccountInput) validate() (AccountInput, decimal.Decimal, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return in, decimal.Zero, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	amount := finance.Cents(in.Amount)
	if !amount.IsPositive() {
		return in, decimal.Zero, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if in.DueDate.IsZero() {
		return in, decimal.Zero, fmt.Errorf("%w: due date is required", ErrInvalidInput)
	}
	in.DueDate = dateOnly(in.DueDate)
	count, err := installmentCount(in.Installments)
	if err != nil {
		return in, decimal.Zero, err
	}
	in.Installments = count
	return in, amount, nil
}

// CreatePayable splits the amount into monthly installments and inserts them
// together. All rows share the id of the first one as parent.
func (s *AccountService) CreatePayable(ctx context.Context, principal model.Principal, input AccountInput) ([]model.AccountPayable, error) {
	in, amount, err := input.validate()
	if err != nil {
		return nil, err
	}

	plan := finance.Split(amount, in.DueDate, in.Installments)
	parentID := uuid.New()
	rows := make([]model.AccountPayable, len(plan))
	for i, inst := range plan {
		rows[i] = model.AccountPayable{
			Description:       installmentDescription(in.Description, inst),
			Amount:            inst.Amount,
			DueDate:           inst.DueDate,
			Status:            model.PayableStatusPending,
			Category:          strings.TrimSpace(in.Category),
			SupplierID:        in.PartyID,
			InstallmentNumber: inst.Number,
			TotalInstallments: inst.Total,
			ParentID:          &parentID,
			Notes:             in.Notes,
			CreatedBy:         &principal.UserID,
		}
	}
	rows[0].ID = parentID

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Accounts.CreatePayables(ctx, rows)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AccountService) CreateReceivable(ctx context.Context, principal model.Principal, input AccountInput) ([]model.AccountReceivable, error) {
	in, amount, err := input.validate()
	if err != nil {
		return nil, err
	}

	plan := finance.Split(amount, in.DueDate, in.Installments)
	parentID := uuid.New()
	rows := make([]model.AccountReceivable, len(plan))
	for i, inst := range plan {
		rows[i] = model.AccountReceivable{
			Description:       installmentDescription(in.Description, inst),
			Amount:            inst.Amount,
			DueDate:           inst.DueDate,
			Status:            model.ReceivableStatusPending,
			Category:          strings.TrimSpace(in.Category),
			CustomerID:        in.PartyID,
			OrderID:           in.OrderID,
			InstallmentNumber: inst.Number,
			TotalInstallments: inst.Total,
			ParentID:          &parentID,
			Notes:             in.Notes,
			CreatedBy:         &principal.UserID,
		}
	}
	rows[0].ID = parentID

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Accounts.CreateReceivables(ctx, rows)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AccountService) GetPayable(ctx context.Context, id uuid.UUID) (*model.AccountPayable, error) {
	row, err := s.store.Accounts.GetPayable(ctx, id)
	return row, translate(err)
}

func (s *AccountService) GetReceivable(ctx context.Context, id uuid.UUID) (*model.AccountReceivable, error) {
	row, err := s.store.Accounts.GetReceivable(ctx, id)
	return row, translate(err)
}

func (s *AccountService) ListPayables(ctx context.Context, filter AccountFilter) ([]model.AccountPayable, error) {
	if filter.Status != "" && !workflow.Payable.Known(model.PayableStatus(filter.Status)) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	return s.store.Accounts.ListPayables(ctx, filter)
}

func (s *AccountService) ListReceivables(ctx context.Context, filter AccountFilter) ([]model.AccountReceivable, error) {
	if filter.Status != "" && !workflow.Receivable.Known(model.ReceivableStatus(filter.Status)) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	return s.store.Accounts.ListReceivables(ctx, filter)
}

func (s *AccountService) UpdatePayable(ctx context.Context, id uuid.UUID, input AccountUpdateInput) (*model.AccountPayable, error) {
	var result *model.AccountPayable
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		row, err := tx.Accounts.GetPayable(ctx, id)
		if err != nil {
			return translate(err)
		}
		if row.Status != model.PayableStatusPending && row.Status != model.PayableStatusOverdue {
			return fmt.Errorf("%w: cannot edit a %s payable", ErrInvalidTransition, row.Status)
		}
		fields := accountFields{&row.Description, &row.Amount, &row.DueDate, &row.Category, &row.Notes}
		if err := fields.apply(input); err != nil {
			return err
		}
		result = row
		return tx.Accounts.SavePayable(ctx, row)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AccountService) UpdateReceivable(ctx context.Context, id uuid.UUID, input AccountUpdateInput) (*model.AccountReceivable, error) {
	var result *model.AccountReceivable
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		row, err := tx.Accounts.GetReceivable(ctx, id)
		if err != nil {
			return translate(err)
		}
		if row.Status != model.ReceivableStatusPending && row.Status != model.ReceivableStatusOverdue {
			return fmt.Errorf("%w: cannot edit a %s receivable", ErrInvalidTransition, row.Status)
		}
		fields := accountFields{&row.Description, &row.Amount, &row.DueDate, &row.Category, &row.Notes}
		if err := fields.apply(input); err != nil {
			return err
		}
		result = row
		return tx.Accounts.SaveReceivable(ctx, row)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// accountFields points at the editable columns shared by both account kinds.
type accountFields struct {
	description *string
	amount      *decimal.Decimal
	dueDate     *time.Time
	category    *string
	notes       *string
}

func (f accountFields) apply(input AccountUpdateInput) error {
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return fmt.Errorf("%w: description is required", ErrInvalidInput)
		}
		*f.description = description
	}
	if input.Amount != nil {
		amount := finance.Cents(*input.Amount)
		if !amount.IsPositive() {
			return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
		}
		*f.amount = amount
	}
	if input.DueDate != nil {
		if input.DueDate.IsZero() {
			return fmt.Errorf("%w: due date is required", ErrInvalidInput)
		}
		*f.dueDate = dateOnly(*input.DueDate)
	}
	if input.Category != nil {
		*f.category = strings.TrimSpace(*input.Category)
	}
	if input.Notes != nil {
		*f.notes = *input.Notes
	}
	return nil
}

// TransitionPayable moves one payable. Paying without a date records today.
func (s *AccountService) TransitionPayable(ctx context.Context, id uuid.UUID, target model.PayableStatus, paidOn *time.Time) (*model.AccountPayable, error) {
	var result *model.AccountPayable
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		row, err := tx.Accounts.GetPayable(ctx, id)
		if err != nil {
			return translate(err)
		}
		if err := workflow.Payable.Check(row.Status, target); err != nil {
			return translate(err)
		}
		result = row
		if row.Status == target {
			return nil
		}
		if target == model.PayableStatusPaid {
			row.PaymentDate = s.settledOn(paidOn)
		}
		row.Status = target
		return tx.Accounts.SavePayable(ctx, row)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AccountService) TransitionReceivable(ctx context.Context, id uuid.UUID, target model.ReceivableStatus, receivedOn *time.Time) (*model.AccountReceivable, error) {
	var result *model.AccountReceivable
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		row, err := tx.Accounts.GetReceivable(ctx, id)
		if err != nil {
			return translate(err)
		}
		if err := workflow.Receivable.Check(row.Status, target); err != nil {
			return translate(err)
		}
		result = row
		if row.Status == target {
			return nil
		}
		if target == model.ReceivableStatusReceived {
			row.ReceivedDate = s.settledOn(receivedOn)
		}
		row.Status = target
		return tx.Accounts.SaveReceivable(ctx, row)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AccountService) settledOn(on *time.Time) *time.Time {
	if on != nil && !on.IsZero() {
		return dateOnlyPtr(on)
	}
	today := dateOnly(s.now().UTC())
	return &today
}

func (s *AccountService) DeletePayable(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	return translate(s.store.Accounts.DeletePayable(ctx, id))
}

func (s *AccountService) DeleteReceivable(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	return translate(s.store.Accounts.DeleteReceivable(ctx, id))
}

// MarkOverdue flags pending rows due strictly before asOf's date. A zero asOf
// means today.
func (s *AccountService) MarkOverdue(ctx context.Context, asOf time.Time) (OverdueResult, error) {
	if asOf.IsZero() {
		asOf = s.now().UTC()
	}
	day := dateOnly(asOf)

	var result OverdueResult
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if result.Payables, err = tx.Accounts.MarkPayablesOverdue(ctx, day); err != nil {
			return err
		}
		result.Receivables, err = tx.Accounts.MarkReceivablesOverdue(ctx, day)
		return err
	})
	return result, err
}
