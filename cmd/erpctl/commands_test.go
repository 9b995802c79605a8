package main

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-erp/erp-service/internal/model"
)

func TestParseAsOf(t *testing.T) {
	date, err := parseAsOf("")
	require.NoError(t, err)
	assert.True(t, date.IsZero())

	date, err = parseAsOf(" 2025-03-01 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), date)

	_, err = parseAsOf("01/03/2025")
	assert.Error(t, err)
}

func TestTokenPrincipal(t *testing.T) {
	p, err := tokenPrincipal("Manager", "", "Bruno")
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, p.Role)
	assert.NotEqual(t, uuid.Nil, p.UserID)

	id := uuid.New()
	p, err = tokenPrincipal("admin", id.String(), "")
	require.NoError(t, err)
	assert.Equal(t, id, p.UserID)

	_, err = tokenPrincipal("root", "", "")
	assert.Error(t, err)

	_, err = tokenPrincipal("staff", "nope", "")
	assert.Error(t, err)
}

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"migrate", "mark-overdue", "generate-recurring", "token"}, names)
}
