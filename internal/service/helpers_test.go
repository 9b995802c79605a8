package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gestao-erp/erp-service/internal/config"
	"github.com/gestao-erp/erp-service/internal/db"
	"github.com/gestao-erp/erp-service/internal/excel"
	"github.com/gestao-erp/erp-service/internal/lock"
	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/pdf"
	"github.com/gestao-erp/erp-service/internal/repository"
)

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

var (
	admin   = model.Principal{UserID: uuid.MustParse("00000000-0000-0000-0000-0000000000a1"), Role: model.RoleAdmin, Name: "Ana"}
	manager = model.Principal{UserID: uuid.MustParse("00000000-0000-0000-0000-0000000000b2"), Role: model.RoleManager, Name: "Bruno"}
	staff   = model.Principal{UserID: uuid.MustParse("00000000-0000-0000-0000-0000000000c3"), Role: model.RoleStaff, Name: "Carla"}
)

func testConfig() *config.Config {
	return &config.Config{
		Tax:     config.TaxConfig{CBSRate: 12, IBSRate: 5, IRPJRate: 15, CSLLRate: 9, SimplesRate: 6},
		Billing: config.BillingConfig{PaymentTermDays: 30},
	}
}

func newTestServices(t *testing.T) (*Services, *repository.Store) {
	t.Helper()
	services, store, _ := newTestServicesWithDB(t)
	return services, store
}

// newTestServicesWithDB also returns the gorm handle so tests can hook callbacks.
func newTestServicesWithDB(t *testing.T) (*Services, *repository.Store, *gorm.DB) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := db.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := repository.NewStore(database)
	services := New(Dependencies{
		Store:  store,
		Config: testConfig(),
		Locker: lock.NewLocalLocker(),
		Excel:  excel.NewGenerator(),
		PDF:    pdf.NewGenerator("Teste"),
		Log:    zerolog.Nop(),
		Clock:  func() time.Time { return testNow },
	})
	return services, store, database
}

func ptr[T any](v T) *T {
	return &v
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
