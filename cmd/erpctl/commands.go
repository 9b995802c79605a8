package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gestao-erp/erp-service/internal/auth"
	"github.com/gestao-erp/erp-service/internal/config"
	"github.com/gestao-erp/erp-service/internal/db"
	"github.com/gestao-erp/erp-service/internal/excel"
	"github.com/gestao-erp/erp-service/internal/lock"
	"github.com/gestao-erp/erp-service/internal/logger"
	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/pdf"
	"github.com/gestao-erp/erp-service/internal/repository"
	"github.com/gestao-erp/erp-service/internal/service"
)

// app is what every command that touches the database needs.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	services *service.Services
	close    func() error
}

func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Environment, cfg.LogLevel)

	database, err := db.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	locker, closeLocker := lock.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.LockTTL)

	services := service.New(service.Dependencies{
		Store:  repository.NewStore(database),
		Config: cfg,
		Locker: locker,
		Excel:  excel.NewGenerator(),
		PDF:    pdf.NewGenerator(cfg.CompanyName),
		Log:    log,
	})
	return &app{cfg: cfg, log: log, services: services, close: closeLocker}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "erpctl",
		Short:         "Operator commands for the ERP service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newMarkOverdueCmd(), newGenerateRecurringCmd(), newTokenCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup()
			if err != nil {
				return err
			}
			defer rt.close()
			rt.log.Info().Msg("schema migrated")
			return nil
		},
	}
}

func newMarkOverdueCmd() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "mark-overdue",
		Short: "Flag pending payables and receivables whose due date has passed",
		Example: `  erpctl mark-overdue
  erpctl mark-overdue --as-of 2025-03-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseAsOf(asOf)
			if err != nil {
				return err
			}
			rt, err := setup()
			if err != nil {
				return err
			}
			defer rt.close()

			result, err := rt.services.Accounts.MarkOverdue(cmd.Context(), date)
			if err != nil {
				return err
			}
			rt.log.Info().
				Int64("payables", result.Payables).
				Int64("receivables", result.Receivables).
				Msg("overdue accounts marked")
			return nil
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date (YYYY-MM-DD, default: today)")
	return cmd
}

func newGenerateRecurringCmd() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "generate-recurring",
		Short: "Create the payables owed by active recurring expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseAsOf(asOf)
			if err != nil {
				return err
			}
			rt, err := setup()
			if err != nil {
				return err
			}
			defer rt.close()

			result, err := rt.services.Recurring.Generate(cmd.Context(), date)
			if err != nil {
				return err
			}
			rt.log.Info().
				Int("created", result.Created).
				Int("definitions", result.Definitions).
				Msg("recurring expenses generated")
			return nil
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "generate up to this month (YYYY-MM-DD, default: today)")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		role   string
		userID string
		name   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token signed with JWT_ACCESS_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			principal, err := tokenPrincipal(role, userID, name)
			if err != nil {
				return err
			}
			token, err := auth.NewParser(cfg.Auth.AccessSecret).Issue(principal, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(model.RoleStaff), "admin, manager or staff")
	cmd.Flags().StringVar(&userID, "user-id", "", "subject uuid (default: random)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}

func parseAsOf(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q, use YYYY-MM-DD", raw)
	}
	return date, nil
}

func tokenPrincipal(role, userID, name string) (model.Principal, error) {
	principal := model.Principal{Role: model.Role(strings.ToLower(role)), Name: name}
	if !principal.IsKnownRole() {
		return principal, fmt.Errorf("unknown role %q", role)
	}
	if userID == "" {
		principal.UserID = uuid.New()
		return principal, nil
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return principal, fmt.Errorf("invalid --user-id: %w", err)
	}
	principal.UserID = id
	return principal, nil
}
