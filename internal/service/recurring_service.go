package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gestao-erp/erp-service/internal/finance"
	"github.com/gestao-erp/erp-service/internal/lock"
	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/repository"
)

const periodLayout = "2006-01"

type RecurringService struct {
	store  *repository.Store
	locker lock.Locker
	log    zerolog.Logger
	now    func() time.Time
}

func NewRecurringService(store *repository.Store, locker lock.Locker, log zerolog.Logger, now func() time.Time) *RecurringService {
	return &RecurringService{store: store, locker: locker, log: log, now: now}
}

type RecurringInput struct {
	Description string
	Amount      float64
	SupplierID  *uuid.UUID
	Category    string
	DayOfMonth  int
	StartDate   time.Time
	EndDate     *time.Time
	Active      *bool
}

type GenerateResult struct {
	Created     int `json:"created"`
	Definitions int `json:"definitions"`
}

func (in RecurringInput) apply(expense *model.RecurringExpense) error {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	amount := finance.Cents(in.Amount)
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if in.DayOfMonth < 1 || in.DayOfMonth > 31 {
		return fmt.Errorf("%w: day of month must be between 1 and 31", ErrInvalidInput)
	}
	if in.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}
	start := dateOnly(in.StartDate)
	end := dateOnlyPtr(in.EndDate)
	if end != nil && end.Before(start) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	expense.Description = description
	expense.Amount = amount
	expense.SupplierID = in.SupplierID
	expense.Category = strings.TrimSpace(in.Category)
	expense.DayOfMonth = in.DayOfMonth
	expense.StartDate = start
	expense.EndDate = end
	if in.Active != nil {
		expense.Active = *in.Active
	}
	return nil
}

func (s *RecurringService) Create(ctx context.Context, principal model.Principal, input RecurringInput) (*model.RecurringExpense, error) {
	expense := &model.RecurringExpense{Active: true, CreatedBy: &principal.UserID}
	if err := input.apply(expense); err != nil {
		return nil, err
	}
	if err := s.store.Recurring.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *RecurringService) Get(ctx context.Context, id uuid.UUID) (*model.RecurringExpense, error) {
	expense, err := s.store.Recurring.Get(ctx, id)
	return expense, translate(err)
}

func (s *RecurringService) List(ctx context.Context, activeOnly bool, page repository.Page) ([]model.RecurringExpense, error) {
	return s.store.Recurring.List(ctx, activeOnly, page)
}

func (s *RecurringService) Update(ctx context.Context, id uuid.UUID, input RecurringInput) (*model.RecurringExpense, error) {
	expense, err := s.store.Recurring.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if err := input.apply(expense); err != nil {
		return nil, err
	}
	if err := s.store.Recurring.Save(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *RecurringService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	return translate(s.store.Recurring.Delete(ctx, id))
}

// Generate creates the payables of every active definition up to asOf's month.
// Periods already generated are skipped, so running it twice creates nothing
// the second time.
func (s *RecurringService) Generate(ctx context.Context, asOf time.Time) (GenerateResult, error) {
	var result GenerateResult
	if asOf.IsZero() {
		asOf = s.now().UTC()
	}

	release, err := s.locker.Obtain(ctx, "recurring:generate")
	if err != nil {
		if errors.Is(err, lock.ErrNotObtained) {
			return result, fmt.Errorf("%w: a generation run is already in progress", ErrConflict)
		}
		return result, err
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			s.log.Warn().Err(err).Msg("failed to release recurring lock")
		}
	}()

	definitions, err := s.store.Recurring.ListActive(ctx)
	if err != nil {
		return result, err
	}
	result.Definitions = len(definitions)

	for i := range definitions {
		created, err := s.generateOne(ctx, &definitions[i], asOf)
		if err != nil {
			return result, fmt.Errorf("recurring expense %s: %w", definitions[i].ID, err)
		}
		result.Created += created
	}

	s.log.Info().
		Int("definitions", result.Definitions).
		Int("created", result.Created).
		Str("as_of", asOf.Format(time.DateOnly)).
		Msg("recurring payables generated")
	return result, nil
}

func (s *RecurringService) generateOne(ctx context.Context, def *model.RecurringExpense, asOf time.Time) (int, error) {
	periods := pendingPeriods(*def, asOf)
	if len(periods) == 0 {
		return 0, nil
	}

	created := 0
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var rows []model.AccountPayable
		for _, period := range periods {
			key := period.Format(periodLayout)
			due, ok := dueInPeriod(*def, period)
			if ok {
				exists, err := tx.Accounts.RecurringPeriodExists(ctx, def.ID, key)
				if err != nil {
					return err
				}
				if !exists {
					rows = append(rows, recurringPayable(*def, key, due))
				}
			}
			def.LastGeneratedPeriod = key
		}
		if err := tx.Accounts.CreatePayables(ctx, rows); err != nil {
			return err
		}
		created = len(rows)
		return tx.Recurring.Save(ctx, def)
	})
	return created, err
}

// pendingPeriods lists the first day of every month from the month after the
// last generated one, or from the start month, through asOf's month.
func pendingPeriods(def model.RecurringExpense, asOf time.Time) []time.Time {
	start := monthStart(def.StartDate)
	if last, err := time.Parse(periodLayout, def.LastGeneratedPeriod); err == nil {
		if next := last.AddDate(0, 1, 0); next.After(start) {
			start = next
		}
	}
	end := monthStart(asOf)
	if def.EndDate != nil {
		if endMonth := monthStart(*def.EndDate); endMonth.Before(end) {
			end = endMonth
		}
	}

	var periods []time.Time
	for p := start; !p.After(end); p = p.AddDate(0, 1, 0) {
		periods = append(periods, p)
	}
	return periods
}

// dueInPeriod clamps the day of month to the period's length and reports false
// when the date falls outside the definition's start and end.
func dueInPeriod(def model.RecurringExpense, period time.Time) (time.Time, bool) {
	day := def.DayOfMonth
	if last := finance.DaysInMonth(period.Year(), period.Month()); day > last {
		day = last
	}
	due := time.Date(period.Year(), period.Month(), day, 0, 0, 0, 0, time.UTC)
	if due.Before(dateOnly(def.StartDate)) {
		return due, false
	}
	if def.EndDate != nil && due.After(dateOnly(*def.EndDate)) {
		return due, false
	}
	return due, true
}

func recurringPayable(def model.RecurringExpense, period string, due time.Time) model.AccountPayable {
	id := uuid.New()
	row := model.AccountPayable{
		Description:        fmt.Sprintf("%s (%s)", def.Description, period),
		Amount:             def.Amount,
		DueDate:            due,
		Status:             model.PayableStatusPending,
		Category:           def.Category,
		SupplierID:         def.SupplierID,
		RecurringExpenseID: &def.ID,
		Period:             period,
		InstallmentNumber:  1,
		TotalInstallments:  1,
		ParentID:           &id,
		CreatedBy:          def.CreatedBy,
	}
	row.ID = id
	return row
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
