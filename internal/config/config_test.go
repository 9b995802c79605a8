package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "file:test?mode=memory")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "Gestão ERP", cfg.CompanyName)
	assert.Equal(t, 7090, cfg.HTTP.Port)
	assert.Equal(t, 8.8, cfg.Tax.CBSRate)
	assert.Equal(t, 17.7, cfg.Tax.IBSRate)
	assert.Equal(t, 15.0, cfg.Tax.IRPJRate)
	assert.Equal(t, 9.0, cfg.Tax.CSLLRate)
	assert.Equal(t, 6.0, cfg.Tax.SimplesRate)
	assert.Equal(t, 30, cfg.Billing.PaymentTermDays)
	assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.HTTP.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://erp")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("TAX_CBS_RATE", "12")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("LOCK_TTL", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 12.0, cfg.Tax.CBSRate)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Redis.LockTTL)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	_, err := Load()
	assert.ErrorContains(t, err, "DB_DSN")

	t.Setenv("DB_DSN", "postgres://erp")
	t.Setenv("JWT_ACCESS_SECRET", "")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_ACCESS_SECRET")
}

func TestLoadRejectsRateOutOfRange(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://erp")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("TAX_IRPJ_RATE", "120")
	_, err := Load()
	assert.ErrorContains(t, err, "TAX_IRPJ_RATE")
}

func TestParseList(t *testing.T) {
	assert.Nil(t, parseList("  "))
	assert.Equal(t, []string{"a", "b"}, parseList("a,,b"))
}
