package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-erp/erp-service/internal/auth"
	"github.com/gestao-erp/erp-service/internal/config"
	"github.com/gestao-erp/erp-service/internal/db"
	"github.com/gestao-erp/erp-service/internal/excel"
	"github.com/gestao-erp/erp-service/internal/http/middleware"
	"github.com/gestao-erp/erp-service/internal/lock"
	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/pdf"
	"github.com/gestao-erp/erp-service/internal/repository"
	"github.com/gestao-erp/erp-service/internal/service"
)

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	tokens map[model.Role]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := db.Open("sqlite", fmt.Sprintf("file:http_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{
		Tax:     config.TaxConfig{CBSRate: 12, IBSRate: 5, IRPJRate: 15, CSLLRate: 9, SimplesRate: 6},
		Billing: config.BillingConfig{PaymentTermDays: 30},
	}
	services := service.New(service.Dependencies{
		Store:  repository.NewStore(database),
		Config: cfg,
		Locker: lock.NewLocalLocker(),
		Excel:  excel.NewGenerator(),
		PDF:    pdf.NewGenerator("Teste"),
		Log:    zerolog.Nop(),
		Clock:  func() time.Time { return testNow },
	})

	parser := auth.NewParser("test-secret")
	tokens := make(map[model.Role]string)
	for _, role := range []model.Role{model.RoleAdmin, model.RoleManager, model.RoleStaff} {
		token, err := parser.Issue(model.Principal{UserID: uuid.New(), Role: role, Name: string(role)}, time.Hour)
		require.NoError(t, err)
		tokens[role] = token
	}

	router := NewRouter(NewHandler(services, zerolog.Nop()), middleware.Auth(parser), RouterConfig{}, zerolog.Nop())
	return &testServer{t: t, router: router, tokens: tokens}
}

func (s *testServer) do(role model.Role, method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[role])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthzIsPublic(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do("", http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do("", http.MethodGet, "/api/v1/customers", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCustomerValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(model.RoleStaff, http.MethodPost, "/api/v1/customers", map[string]any{"name": "Padaria", "state": "XX"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(model.RoleStaff, http.MethodPost, "/api/v1/customers", map[string]any{"name": "Padaria", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(model.RoleStaff, http.MethodPost, "/api/v1/customers", map[string]any{"name": "Padaria", "state": "sp"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	customer := decode[model.Customer](t, rec)

	rec = srv.do(model.RoleStaff, http.MethodDelete, "/api/v1/customers/"+customer.ID.String(), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(model.RoleAdmin, http.MethodDelete, "/api/v1/customers/"+customer.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(model.RoleAdmin, http.MethodGet, "/api/v1/customers/"+customer.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidPathID(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(model.RoleStaff, http.MethodGet, "/api/v1/budgets/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBudgetPreviewAcceptsLenientNumbers(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(model.RoleStaff, http.MethodPost, "/api/v1/budgets/preview", `{
		"laborHours": "10",
		"laborRate": "50,00",
		"materialCost": 90,
		"indirectCostsTotal": "10",
		"profitMargin": "abc"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var breakdown struct {
		LaborCost  decimal.Decimal `json:"laborCost"`
		TotalCosts decimal.Decimal `json:"totalCosts"`
		FinalPrice decimal.Decimal `json:"finalPrice"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &breakdown))
	assert.Equal(t, "500.00", breakdown.LaborCost.StringFixed(2))
	assert.Equal(t, "600.00", breakdown.TotalCosts.StringFixed(2))
	assert.Equal(t, "600.00", breakdown.FinalPrice.StringFixed(2))
}

func TestBudgetLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(model.RoleStaff, http.MethodPost, "/api/v1/budgets", map[string]any{
		"customerName":       "Padaria Central",
		"title":              "Vitrine refrigerada",
		"laborHours":         10,
		"laborRate":          50,
		"materialCost":       90,
		"indirectCostsTotal": 10,
		"profitMargin":       50,
		"installments":       3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	budget := decode[model.Budget](t, rec)
	assert.Equal(t, model.BudgetStatusDraft, budget.Status)
	assert.Equal(t, "1200.00", budget.FinalPrice.StringFixed(2))

	base := "/api/v1/budgets/" + budget.ID.String()

	rec = srv.do(model.RoleManager, http.MethodPost, base+"/transition", map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(model.RoleStaff, http.MethodPost, base+"/transition", map[string]any{"status": "sent"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(model.RoleStaff, http.MethodPost, base+"/transition", map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(model.RoleManager, http.MethodPost, base+"/transition", map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(model.RoleStaff, http.MethodGet, base+"/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypePDF, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = srv.do(model.RoleStaff, http.MethodPost, base+"/convert/order", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[model.Order](t, rec)
	require.Len(t, order.Items, 1)

	rec = srv.do(model.RoleStaff, http.MethodPost, base+"/convert/order", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(model.RoleManager, http.MethodPost, "/api/v1/orders/"+order.ID.String()+"/transition", map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(model.RoleStaff, http.MethodGet, "/api/v1/receivables?orderId="+order.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	receivables := decode[struct {
		Data []model.AccountReceivable `json:"data"`
	}](t, rec)
	assert.Len(t, receivables.Data, 3)
}

func TestPayableInstallmentsAndSettlement(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(model.RoleStaff, http.MethodPost, "/api/v1/payables", map[string]any{
		"description":  "Aluguel do galpão",
		"amount":       "100,00",
		"dueDate":      "2025-01-31",
		"installments": 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[struct {
		Data []model.AccountPayable `json:"data"`
	}](t, rec)
	require.Len(t, created.Data, 3)
	assert.Equal(t, "33.33", created.Data[0].Amount.StringFixed(2))
	assert.Equal(t, "33.34", created.Data[2].Amount.StringFixed(2))
	assert.Equal(t, day(2025, time.February, 28), created.Data[1].DueDate.UTC())

	first := created.Data[0]
	rec = srv.do(model.RoleStaff, http.MethodPost, "/api/v1/payables/"+first.ID.String()+"/transition", map[string]any{
		"status": "paid",
		"date":   "10/01/2025",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paid := decode[model.AccountPayable](t, rec)
	assert.Equal(t, model.PayableStatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, day(2025, time.January, 10), paid.PaymentDate.UTC())

	rec = srv.do(model.RoleStaff, http.MethodPatch, "/api/v1/payables/"+first.ID.String(), map[string]any{"notes": "x"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(model.RoleStaff, http.MethodGet, "/api/v1/payables?status=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decode[struct {
		Data []model.AccountPayable `json:"data"`
	}](t, rec)
	assert.Len(t, pending.Data, 2)

	rec = srv.do(model.RoleStaff, http.MethodPost, "/api/v1/accounts/mark-overdue", map[string]any{"asOf": "2025-03-01"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[service.OverdueResult](t, rec)
	assert.Equal(t, int64(1), result.Payables)
}

func TestInstallmentsAreReadLeniently(t *testing.T) {
	srv := newTestServer(t)

	cases := map[string]int{`"3"`: 3, `"abc"`: 1, `""`: 1, `2.7`: 2}
	for raw, want := range cases {
		body := `{"description": "Fornecedor", "amount": 90, "dueDate": "2025-02-10", "installments": ` + raw + `}`
		rec := srv.do(model.RoleStaff, http.MethodPost, "/api/v1/payables", body)
		require.Equal(t, http.StatusCreated, rec.Code, raw+": "+rec.Body.String())
		created := decode[struct {
			Data []model.AccountPayable `json:"data"`
		}](t, rec)
		assert.Len(t, created.Data, want, raw)
	}

	rec := srv.do(model.RoleStaff, http.MethodPost, "/api/v1/budgets", `{
		"customerName": "Padaria",
		"title": "Balcão",
		"laborHours": 1,
		"laborRate": 100,
		"installments": "4"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 4, decode[model.Budget](t, rec).Installments)
}

func TestInstallmentCountIsBounded(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(model.RoleStaff, http.MethodPost, "/api/v1/payables", map[string]any{
		"description":  "Fornecedor",
		"amount":       90,
		"dueDate":      "2025-02-10",
		"installments": 100000000,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(model.RoleStaff, http.MethodPost, "/api/v1/budgets", map[string]any{
		"customerName": "Padaria",
		"title":        "Balcão",
		"installments": "361",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(model.RoleStaff, http.MethodGet, "/api/v1/payables", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[struct {
		Data []model.AccountPayable `json:"data"`
	}](t, rec).Data)
}

func TestTaskBoardAndReorder(t *testing.T) {
	srv := newTestServer(t)

	var ids []uuid.UUID
	for _, title := range []string{"Medir", "Cortar", "Montar"} {
		rec := srv.do(model.RoleStaff, http.MethodPost, "/api/v1/tasks", map[string]any{"title": title})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decode[model.Task](t, rec).ID)
	}

	rec := srv.do(model.RoleStaff, http.MethodPost, "/api/v1/tasks", map[string]any{"title": "x", "priority": "urgent"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(model.RoleStaff, http.MethodPost, "/api/v1/tasks/"+ids[2].String()+"/transition", map[string]any{"status": "in_progress"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(model.RoleStaff, http.MethodPost, "/api/v1/tasks/"+ids[0].String()+"/transition", map[string]any{"status": "done"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(model.RoleStaff, http.MethodGet, "/api/v1/tasks/board", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[struct {
		Columns []service.BoardColumn `json:"columns"`
	}](t, rec)
	require.NotEmpty(t, board.Columns)
	assert.Equal(t, model.TaskStatusTodo, board.Columns[0].Status)
	assert.Len(t, board.Columns[0].Tasks, 2)
	assert.Equal(t, model.TaskStatusInProgress, board.Columns[1].Status)
	assert.Len(t, board.Columns[1].Tasks, 1)
}

func TestProjectChecklistDrivesProgress(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(model.RoleStaff, http.MethodPost, "/api/v1/projects", map[string]any{
		"name":         "Loja nova",
		"autoProgress": true,
		"checklist":    []string{"Briefing", "Layout"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	project := decode[model.Project](t, rec)
	require.Len(t, project.Checklist, 2)
	assert.Equal(t, 0, project.Progress)

	path := fmt.Sprintf("/api/v1/projects/%s/checklist/%s", project.ID, project.Checklist[0].ID)
	rec = srv.do(model.RoleStaff, http.MethodPatch, path, map[string]any{"done": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 50, decode[model.Project](t, rec).Progress)

	rec = srv.do(model.RoleStaff, http.MethodPatch, path, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(model.RoleStaff, http.MethodPost, "/api/v1/receivables", map[string]any{
		"description": "Venda avulsa",
		"amount":      250,
		"dueDate":     "2025-01-20",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = srv.do(model.RoleStaff, http.MethodGet, "/api/v1/reports/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(model.RoleStaff, http.MethodGet, "/api/v1/calendar?from=2025-01-01&to=2025-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	events := decode[struct {
		Data []model.CalendarEvent `json:"data"`
	}](t, rec)
	require.Len(t, events.Data, 1)
	assert.Equal(t, model.CalendarEventReceivable, events.Data[0].Kind)

	rec = srv.do(model.RoleStaff, http.MethodGet, "/api/v1/calendar?from=2025-02-01&to=2025-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(model.RoleStaff, http.MethodGet, "/api/v1/reports/accounts.xlsx?from=2025-01-01&to=2025-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "contas_")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestRecurringGenerateOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(model.RoleStaff, http.MethodPost, "/api/v1/recurring-expenses", map[string]any{
		"description": "Internet",
		"amount":      "99,90",
		"dayOfMonth":  31,
		"startDate":   "2024-11-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = srv.do(model.RoleStaff, http.MethodPost, "/api/v1/recurring-expenses/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[service.GenerateResult](t, rec)
	assert.Equal(t, 3, result.Created)

	rec = srv.do(model.RoleStaff, http.MethodPost, "/api/v1/recurring-expenses/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[service.GenerateResult](t, rec).Created)
}

func TestParseDateLayouts(t *testing.T) {
	want := day(2025, time.March, 9)
	for _, raw := range []string{
		"2025-03-09",
		"09/03/2025",
		"2025-03-09T00:00:00",
		"2025-03-09T00:00:00Z",
		"2025-03-09T22:00:00-03:00",
		"2025-03-09T01:30:00+05:00",
	} {
		got, err := parseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := parseDate("March 9")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
