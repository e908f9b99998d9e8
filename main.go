package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gkmedicos/api/domain"
	"gkmedicos/api/internal/api"
	"gkmedicos/api/internal/auth"
	"gkmedicos/api/internal/config"
	"gkmedicos/api/internal/database"
	"gkmedicos/api/internal/jobs"
	"gkmedicos/api/internal/logging"
	"gkmedicos/api/internal/migrations"
	"gkmedicos/api/internal/seed"
	"gkmedicos/api/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := logging.Init(cfg.LogMode, cfg.LogFile)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	for _, w := range cfg.Warnings {
		zap.S().Warn(w)
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		zap.S().Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		zap.S().Fatalf("%v", err)
	}

	st := store.New(db)
	ctx := context.Background()
	err = seed.EnsureAccounts(ctx, st,
		seed.Account{Name: "Owner", Email: cfg.OwnerEmail, Password: cfg.OwnerPassword, Role: domain.RoleOwner},
		seed.Account{Name: "Staff", Email: cfg.StaffEmail, Password: cfg.StaffPassword, Role: domain.RoleStaff},
	)
	if err != nil {
		zap.S().Fatalf("unable to seed accounts: %v", err)
	}
	if cfg.SeedCatalog != "" {
		if _, err := seed.LoadCatalog(ctx, st, cfg.SeedCatalog); err != nil {
			zap.S().Warnf("unable to load medicine catalog %s: %v", cfg.SeedCatalog, err)
		}
	}

	scanner := jobs.NewStockScanner(st, cfg.ExpiryAlertDays)
	sched, err := scanner.Start(cfg.AlertSchedule)
	if err != nil {
		zap.S().Fatalf("invalid ALERT_SCHEDULE %q: %v", cfg.AlertSchedule, err)
	}
	defer sched.Stop()

	handler := api.New(st, auth.NewIssuer(cfg.Secret, cfg.TokenTTL), api.Options{
		CORSOrigins:     cfg.CORSOrigins,
		ExpiryAlertDays: cfg.ExpiryAlertDays,
	})

	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		zap.S().Infof("pharmacy API listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.S().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorf("shutdown error: %v", err)
	}
}
