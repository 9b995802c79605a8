package db

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-erp/erp-service/internal/model"
)

func TestMigrateSQLite(t *testing.T) {
	database, err := Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, Migrate(database))

	for _, table := range []any{&model.Budget{}, &model.Order{}, &model.AccountPayable{}, &model.AccountReceivable{}, &model.Task{}} {
		assert.True(t, database.Migrator().HasTable(table))
	}
	assert.True(t, database.Migrator().HasIndex(&model.AccountPayable{}, "uq_payable_recurring_period"))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.ErrorContains(t, err, "unsupported")
}
