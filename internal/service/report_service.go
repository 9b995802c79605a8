package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/repository"
)

type ExcelGenerator interface {
	Generate(report model.AccountsReport) ([]byte, error)
}

type ReportService struct {
	store *repository.Store
	excel ExcelGenerator
	now   func() time.Time
}

func NewReportService(store *repository.Store, excel ExcelGenerator, now func() time.Time) *ReportService {
	return &ReportService{store: store, excel: excel, now: now}
}

func (s *ReportService) Dashboard(ctx context.Context) (*model.DashboardSummary, error) {
	var (
		summary model.DashboardSummary
		err     error
	)
	if summary.Receivables, err = s.store.Reports.ReceivableTotals(ctx); err != nil {
		return nil, err
	}
	if summary.Payables, err = s.store.Reports.PayableTotals(ctx); err != nil {
		return nil, err
	}
	if summary.Orders, err = s.store.Reports.OrderCounts(ctx); err != nil {
		return nil, err
	}
	if summary.Budgets, err = s.store.Reports.BudgetCounts(ctx); err != nil {
		return nil, err
	}

	summary.PendingReceivable = openTotal(summary.Receivables, string(model.ReceivableStatusPending), string(model.ReceivableStatusOverdue))
	summary.PendingPayable = openTotal(summary.Payables, string(model.PayableStatusPending), string(model.PayableStatusOverdue))
	summary.ProjectedNet = summary.PendingReceivable.Sub(summary.PendingPayable)
	return &summary, nil
}

// openTotal sums the totals of the given statuses. Overdue rows are still owed,
// so they count as open.
func openTotal(rows []model.StatusTotal, statuses ...string) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		for _, status := range statuses {
			if row.Status == status {
				total = total.Add(row.Total)
			}
		}
	}
	return total.Round(2)
}

// Calendar merges everything dated inside [from, to] into one chronological list.
func (s *ReportService) Calendar(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}

	var events []model.CalendarEvent
	payables, err := s.store.Reports.PayablesDue(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for _, row := range payables {
		amount := row.Amount
		events = append(events, model.CalendarEvent{
			Date: row.DueDate, Kind: model.CalendarEventPayable, Title: row.Description,
			EntityID: row.ID, Status: string(row.Status), Amount: &amount,
		})
	}

	receivables, err := s.store.Reports.ReceivablesDue(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for _, row := range receivables {
		amount := row.Amount
		events = append(events, model.CalendarEvent{
			Date: row.DueDate, Kind: model.CalendarEventReceivable, Title: row.Description,
			EntityID: row.ID, Status: string(row.Status), Amount: &amount,
		})
	}

	projects, err := s.store.Reports.ProjectsDue(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for _, row := range projects {
		events = append(events, model.CalendarEvent{
			Date: *row.DueDate, Kind: model.CalendarEventProject, Title: row.Name,
			EntityID: row.ID, Status: string(row.Status),
		})
	}

	tasks, err := s.store.Reports.TasksDue(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for _, row := range tasks {
		events = append(events, model.CalendarEvent{
			Date: *row.DueDate, Kind: model.CalendarEventTask, Title: row.Title,
			EntityID: row.ID, Status: string(row.Status),
		})
	}

	budgets, err := s.store.Reports.BudgetsExpiring(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for _, row := range budgets {
		amount := row.FinalPrice
		events = append(events, model.CalendarEvent{
			Date: *row.ValidUntil, Kind: model.CalendarEventBudget, Title: row.Title,
			EntityID: row.ID, Status: string(row.Status), Amount: &amount,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	if events == nil {
		events = []model.CalendarEvent{}
	}
	return events, nil
}

// ExportAccounts builds the xlsx workbook of every payable and receivable due in
// the period. A zero range defaults to the current month.
func (s *ReportService) ExportAccounts(ctx context.Context, from, to time.Time) (*FileResult, error) {
	if from.IsZero() && to.IsZero() {
		from = monthStart(s.now().UTC())
		to = from.AddDate(0, 1, -1)
	}
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}

	report := model.AccountsReport{PeriodStart: from, PeriodEnd: to}
	if report.Receivables, err = s.store.Reports.ReceivablesDue(ctx, from, to); err != nil {
		return nil, err
	}
	if report.Payables, err = s.store.Reports.PayablesDue(ctx, from, to); err != nil {
		return nil, err
	}

	content, err := s.excel.Generate(report)
	if err != nil {
		return nil, err
	}
	return &FileResult{
		FileName: fmt.Sprintf("contas_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102")),
		Content:  content,
	}, nil
}

func normalizeRange(from, to time.Time) (time.Time, time.Time, error) {
	if from.IsZero() || to.IsZero() {
		return from, to, fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	from, to = dateOnly(from), dateOnly(to)
	if to.Before(from) {
		return from, to, fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}
	return from, to, nil
}
