package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gestao-erp/erp-service/internal/auth"
	"github.com/gestao-erp/erp-service/internal/config"
	"github.com/gestao-erp/erp-service/internal/db"
	"github.com/gestao-erp/erp-service/internal/excel"
	httphandler "github.com/gestao-erp/erp-service/internal/http"
	"github.com/gestao-erp/erp-service/internal/http/middleware"
	"github.com/gestao-erp/erp-service/internal/lock"
	"github.com/gestao-erp/erp-service/internal/logger"
	"github.com/gestao-erp/erp-service/internal/pdf"
	"github.com/gestao-erp/erp-service/internal/repository"
	"github.com/gestao-erp/erp-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	locker, closeLocker := lock.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.LockTTL)
	defer func() {
		if err := closeLocker(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}()

	services := service.New(service.Dependencies{
		Store:  repository.NewStore(database),
		Config: cfg,
		Locker: locker,
		Excel:  excel.NewGenerator(),
		PDF:    pdf.NewGenerator(cfg.CompanyName),
		Log:    log,
	})

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(services, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, httphandler.RouterConfig{
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("starting erp service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
