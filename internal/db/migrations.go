package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gestao-erp/erp-service/internal/model"
)

// Models lists every table in dependency order.
var Models = []any{
	&model.Customer{},
	&model.Supplier{},
	&model.Product{},
	&model.Budget{},
	&model.Order{},
	&model.OrderItem{},
	&model.AccountPayable{},
	&model.AccountReceivable{},
	&model.RecurringExpense{},
	&model.Project{},
	&model.ChecklistItem{},
	&model.Task{},
}

// postgresStatements tighten the schema where Postgres allows it.
var postgresStatements = []string{
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_budgets_status') THEN
			ALTER TABLE budgets ADD CONSTRAINT chk_budgets_status
				CHECK (status IN ('draft', 'sent', 'approved', 'rejected'));
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_orders_status') THEN
			ALTER TABLE orders ADD CONSTRAINT chk_orders_status
				CHECK (status IN ('pending', 'approved', 'in_production', 'completed', 'cancelled'));
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_account_payables_status') THEN
			ALTER TABLE account_payables ADD CONSTRAINT chk_account_payables_status
				CHECK (status IN ('pending', 'paid', 'overdue', 'cancelled'));
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_account_receivables_status') THEN
			ALTER TABLE account_receivables ADD CONSTRAINT chk_account_receivables_status
				CHECK (status IN ('pending', 'received', 'overdue', 'cancelled'));
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_projects_progress') THEN
			ALTER TABLE projects ADD CONSTRAINT chk_projects_progress
				CHECK (progress BETWEEN 0 AND 100);
		END IF;
	END
	$$;`,
	`CREATE INDEX IF NOT EXISTS idx_account_payables_open_due ON account_payables (due_date) WHERE status IN ('pending', 'overdue');`,
	`CREATE INDEX IF NOT EXISTS idx_account_receivables_open_due ON account_receivables (due_date) WHERE status IN ('pending', 'overdue');`,
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	for i, stmt := range postgresStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
