package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DBConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// TaxConfig holds the default rates, in percent, applied when a budget or order
// does not carry its own.
type TaxConfig struct {
	CBSRate     float64
	IBSRate     float64
	IRPJRate    float64
	CSLLRate    float64
	SimplesRate float64
}

type BillingConfig struct {
	PaymentTermDays int
}

type Config struct {
	Environment string
	LogLevel    string
	CompanyName string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Redis       RedisConfig
	Tax         TaxConfig
	Billing     BillingConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("COMPANY_NAME", "Gestão ERP")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 7090)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("LOCK_TTL", "30s")
	v.SetDefault("TAX_CBS_RATE", 8.8)
	v.SetDefault("TAX_IBS_RATE", 17.7)
	v.SetDefault("TAX_IRPJ_RATE", 15)
	v.SetDefault("TAX_CSLL_RATE", 9)
	v.SetDefault("TAX_SIMPLES_RATE", 6)
	v.SetDefault("ORDER_PAYMENT_TERM_DAYS", 30)

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		CompanyName: v.GetString("COMPANY_NAME"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			LockTTL:  v.GetDuration("LOCK_TTL"),
		},
		Tax: TaxConfig{
			CBSRate:     v.GetFloat64("TAX_CBS_RATE"),
			IBSRate:     v.GetFloat64("TAX_IBS_RATE"),
			IRPJRate:    v.GetFloat64("TAX_IRPJ_RATE"),
			CSLLRate:    v.GetFloat64("TAX_CSLL_RATE"),
			SimplesRate: v.GetFloat64("TAX_SIMPLES_RATE"),
		},
		Billing: BillingConfig{
			PaymentTermDays: v.GetInt("ORDER_PAYMENT_TERM_DAYS"),
		},
	}

	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if cfg.Redis.LockTTL <= 0 {
		cfg.Redis.LockTTL = 30 * time.Second
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "sqlite" {
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DB.Driver)
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	rates := map[string]float64{
		"TAX_CBS_RATE":     cfg.Tax.CBSRate,
		"TAX_IBS_RATE":     cfg.Tax.IBSRate,
		"TAX_IRPJ_RATE":    cfg.Tax.IRPJRate,
		"TAX_CSLL_RATE":    cfg.Tax.CSLLRate,
		"TAX_SIMPLES_RATE": cfg.Tax.SimplesRate,
	}
	for key, rate := range rates {
		if rate < 0 || rate > 100 {
			return fmt.Errorf("%s must be between 0 and 100", key)
		}
	}
	if cfg.Billing.PaymentTermDays < 0 {
		return fmt.Errorf("ORDER_PAYMENT_TERM_DAYS must not be negative")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
