package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fisioklinik/fisioklinik/internal/app"
	"github.com/fisioklinik/fisioklinik/internal/appointments"
	"github.com/fisioklinik/fisioklinik/internal/audit"
	audithttp "github.com/fisioklinik/fisioklinik/internal/audit/http"
	"github.com/fisioklinik/fisioklinik/internal/auth"
	"github.com/fisioklinik/fisioklinik/internal/billing"
	"github.com/fisioklinik/fisioklinik/internal/clinical"
	"github.com/fisioklinik/fisioklinik/internal/observability"
	"github.com/fisioklinik/fisioklinik/internal/patients"
	"github.com/fisioklinik/fisioklinik/internal/platform/cache"
	"github.com/fisioklinik/fisioklinik/internal/platform/db"
	"github.com/fisioklinik/fisioklinik/internal/reports"
	"github.com/fisioklinik/fisioklinik/internal/staff"
	"github.com/fisioklinik/fisioklinik/internal/treatments"
	"github.com/fisioklinik/fisioklinik/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Reports degrade to uncached queries without Redis.
		logger.Warn("redis unavailable", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditWriter := audit.NewWriter(dbpool, logger)
	auditRepo := audit.NewRepository(dbpool)
	auditService := audit.NewService(auditRepo)
	auditHandler := audithttp.NewHandler(logger, auditService)

	authRepo := auth.NewRepository(dbpool)
	sessionStore := auth.NewStore(authRepo)
	authService := auth.NewService(authRepo, sessionStore, auditWriter, logger)
	authHandler := auth.NewHandler(logger, authService, cfg.IsProduction())

	gate := auth.NewGate(auth.GateConfig{
		Logger:         logger,
		Store:          sessionStore,
		AllowedOrigins: cfg.AllowedOrigins,
		PublicPaths:    app.PublicPaths,
		Secure:         cfg.IsProduction(),
	})

	patientsRepo := patients.NewRepository(dbpool)
	patientsService := patients.NewService(patientsRepo, auditWriter)
	patientsHandler := patients.NewHandler(logger, patientsService)

	appointmentsRepo := appointments.NewRepository(dbpool)
	appointmentsService := appointments.NewService(appointmentsRepo, auditWriter)
	appointmentsHandler := appointments.NewHandler(logger, appointmentsService)

	treatmentsRepo := treatments.NewRepository(dbpool)
	treatmentsService := treatments.NewService(treatmentsRepo, auditWriter)
	treatmentsHandler := treatments.NewHandler(logger, treatmentsService)

	clinicalRepo := clinical.NewRepository(dbpool)
	clinicalService := clinical.NewService(clinicalRepo, treatmentsService, auditWriter)
	clinicalHandler := clinical.NewHandler(logger, clinicalService)

	billingRepo := billing.NewRepository(dbpool)
	billingService := billing.NewService(billingRepo, auditWriter)
	billingHandler := billing.NewHandler(logger, billingService)

	staffRepo := staff.NewRepository(dbpool)
	staffService := staff.NewService(staffRepo, sessionStore, auditWriter, logger)
	staffHandler := staff.NewHandler(logger, staffService)

	reportsRepo := reports.NewRepository(dbpool)
	reportsCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	reportsService := reports.NewService(reportsRepo, reportsCache)
	reportsHandler := reports.NewHandler(logger, reportsService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		Gate:                gate,
		AuthHandler:         authHandler,
		PatientsHandler:     patientsHandler,
		AppointmentsHandler: appointmentsHandler,
		ClinicalHandler:     clinicalHandler,
		TreatmentsHandler:   treatmentsHandler,
		BillingHandler:      billingHandler,
		StaffHandler:        staffHandler,
		ReportsHandler:      reportsHandler,
		AuditHandler:        auditHandler,
		JobsHandler:         jobHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
