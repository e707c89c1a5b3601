package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	auditdelivery "github.com/tair/erp-backend/internal/audit/delivery/http"
	auditrepository "github.com/tair/erp-backend/internal/audit/repository"
	crmdelivery "github.com/tair/erp-backend/internal/crm/delivery/http"
	crmrepository "github.com/tair/erp-backend/internal/crm/repository"
	dashboarddelivery "github.com/tair/erp-backend/internal/dashboard/delivery/http"
	dashboardquery "github.com/tair/erp-backend/internal/dashboard/usecase/query"
	hrdelivery "github.com/tair/erp-backend/internal/hr/delivery/http"
	hrrepository "github.com/tair/erp-backend/internal/hr/repository"
	inventorydelivery "github.com/tair/erp-backend/internal/inventory/delivery/http"
	inventoryrepository "github.com/tair/erp-backend/internal/inventory/repository"
	"github.com/tair/erp-backend/internal/seed"
	"github.com/tair/erp-backend/internal/server"
	userdelivery "github.com/tair/erp-backend/internal/user/delivery/http"
	userrepository "github.com/tair/erp-backend/internal/user/repository"
	usercommand "github.com/tair/erp-backend/internal/user/usecase/command"
	"github.com/tair/erp-backend/pkg/auth"
	"github.com/tair/erp-backend/pkg/config"
	"github.com/tair/erp-backend/pkg/database"
	"github.com/tair/erp-backend/pkg/logger"
	"github.com/tair/erp-backend/pkg/tracing"
)

const serviceName = "erp-backend"

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(serviceName, "info", true)
		logger.Error(ctx).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.LogLevel, cfg.IsDevelopment())

	tp, err := tracing.InitTracer(serviceName, cfg.JaegerEndpoint)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Tracing disabled")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
				logger.Warn(shutdownCtx).Err(err).Msg("Failed to shut down tracer")
			}
		}()
	}

	db, sqlDB, err := database.NewGormConnection(database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to connect to database")
		os.Exit(1)
	}
	defer sqlDB.Close()

	// Repositories
	userRepo := userrepository.NewGormUserRepository(db)
	roleRepo := userrepository.NewGormRoleRepository(db)
	auditRepo := auditrepository.NewGormAuditRepository(db)
	inventoryRepo := inventoryrepository.NewGormInventoryRepository(db)
	crmRepo := crmrepository.NewGormCRMRepository(db)
	hrRepo := hrrepository.NewGormHRRepository(db)

	for name, migrate := range map[string]func() error{
		"user":      userRepo.AutoMigrate,
		"audit":     auditRepo.AutoMigrate,
		"inventory": inventoryRepo.AutoMigrate,
		"crm":       crmRepo.AutoMigrate,
		"hr":        hrRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Error(ctx).Err(err).Str("module", name).Msg("Failed to run migrations")
			os.Exit(1)
		}
	}

	if cfg.SeedOnStart {
		if err := seed.Run(ctx, db); err != nil {
			logger.Error(ctx).Err(err).Msg("Seeding failed")
			os.Exit(1)
		}
	}

	// Optional dashboard cache
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := cache.Ping(ctx).Err(); err != nil {
			logger.Warn(ctx).Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unreachable, dashboard cache disabled")
			cache = nil
		}
	}

	// Auth plumbing shared by every gated route
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	authmw := userdelivery.NewAuthMiddleware(userRepo, tokens)
	loginHandler := usercommand.NewLoginUserHandler(userRepo, tokens)

	// HTTP handlers
	userHandler := userdelivery.NewUserHandler(userRepo, roleRepo, auditRepo, authmw, loginHandler)
	inventoryHandler := inventorydelivery.NewInventoryHandler(inventoryRepo, inventoryrepository.NewTracedLedger(inventoryRepo), authmw)
	crmHandler := crmdelivery.NewCRMHandler(crmRepo, crmRepo, crmRepo, auditRepo, authmw)
	hrHandler := hrdelivery.NewHRHandler(hrRepo, hrRepo, hrRepo, auditRepo, authmw)
	auditHandler := auditdelivery.NewAuditHandler(auditRepo, authmw)
	dashboardHandler := dashboarddelivery.NewDashboardHandler(
		dashboardquery.NewSummaryHandler(userRepo, hrRepo, inventoryRepo, crmRepo, cache),
		dashboardquery.NewRecentActivityHandler(inventoryRepo, hrRepo),
		authmw,
	)

	router := mux.NewRouter()
	middlewareConfig := server.DefaultMiddlewareConfig()
	server.RegisterMiddlewares(router, middlewareConfig)

	userHandler.RegisterRoutes(router)
	userHandler.RegisterHealthCheck(router, sqlDB)
	inventoryHandler.RegisterRoutes(router)
	crmHandler.RegisterRoutes(router)
	hrHandler.RegisterRoutes(router)
	auditHandler.RegisterRoutes(router)
	dashboardHandler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      server.SetupCORS(middlewareConfig)(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info(ctx).Str("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx).Err(err).Msg("HTTP server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx).Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx).Err(err).Msg("Graceful shutdown failed")
	}
	if cache != nil {
		cache.Close()
	}
}
