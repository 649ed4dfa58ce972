package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BelowZeroPortfolio/school-scan-sub001/config"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/api/handler"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/api/router"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/service"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/database"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/jwt"
	applogger "github.com/BelowZeroPortfolio/school-scan-sub001/pkg/logger"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/redis"
	"github.com/BelowZeroPortfolio/school-scan-sub001/web"
)

func main() {
	// 1. configuration
	cfg, err := config.Load(os.Getenv("SCAN_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("school_timezone", cfg.School.Timezone),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations failed", zap.Error(err))
	}

	repo := repository.NewRepository(db)

	// 3.1 persist warnings, errors and audit entries to the logs table
	logger, err = applogger.WithSink(logger, repository.NewLogSink(repo.Log), cfg.Log.DBLevel)
	if err != nil {
		logger.Fatal("attach log sink failed", zap.Error(err))
	}

	// 4. Redis is optional: without it logins are not rate limited and
	// scanner logout cannot revoke tokens.
	var rdb *redis.Client
	var tokens service.TokenStore
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, running without rate limits and token revocation", zap.Error(err))
			rdb = nil
		} else {
			tokens = rdb
		}
	}

	// 5. JWT for the scanner API
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. services
	svc := service.NewService(cfg, repo, jwtMgr, tokens, logger)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 10*time.Second)
	_, err = svc.User.EnsureAdmin(bootCtx, cfg.Auth.BootstrapAdminPassword)
	cancelBoot()
	if err != nil {
		logger.Fatal("bootstrap admin failed", zap.Error(err))
	}

	// 7. templates
	tmpl, err := web.Templates()
	if err != nil {
		logger.Fatal("parse templates failed", zap.Error(err))
	}

	// 8. handlers and routes
	checks := map[string]handler.HealthCheck{
		"database": sqlDB.PingContext,
	}
	if rdb != nil {
		checks["redis"] = rdb.Ping
	}
	h := handler.NewHandler(svc, handler.NewHealthHandler(checks))

	engine := router.Setup(cfg, h, router.Deps{
		Users:     svc.Auth,
		Revoked:   svc.Auth,
		JWT:       jwtMgr,
		Redis:     rdb,
		Templates: tmpl,
		Static:    web.Static(),
		Logger:    logger,
	})

	// 9. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("close database failed", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
