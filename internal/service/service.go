package service

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gestao-erp/erp-service/internal/config"
	"github.com/gestao-erp/erp-service/internal/lock"
	"github.com/gestao-erp/erp-service/internal/repository"
)

type Dependencies struct {
	Store  *repository.Store
	Config *config.Config
	Locker lock.Locker
	Excel  ExcelGenerator
	PDF    PDFGenerator
	Log    zerolog.Logger
	Clock  func() time.Time
}

// Services is the full application surface used by the HTTP layer and the CLI.
type Services struct {
	Catalog   *CatalogService
	Budgets   *BudgetService
	Orders    *OrderService
	Accounts  *AccountService
	Recurring *RecurringService
	Projects  *ProjectService
	Tasks     *TaskService
	Reports   *ReportService
}

func New(deps Dependencies) *Services {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Locker == nil {
		deps.Locker = lock.NewLocalLocker()
	}
	return &Services{
		Catalog:   NewCatalogService(deps.Store),
		Budgets:   NewBudgetService(deps.Store, deps.Config.Tax, deps.PDF, deps.Log, deps.Clock),
		Orders:    NewOrderService(deps.Store, deps.Config, deps.Locker, deps.Log, deps.Clock),
		Accounts:  NewAccountService(deps.Store, deps.Clock),
		Recurring: NewRecurringService(deps.Store, deps.Locker, deps.Log, deps.Clock),
		Projects:  NewProjectService(deps.Store),
		Tasks:     NewTaskService(deps.Store),
		Reports:   NewReportService(deps.Store, deps.Excel, deps.Clock),
	}
}

type FileResult struct {
	FileName string
	Content  []byte
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	d := dateOnly(*t)
	return &d
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
