package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"contact_backend/internal/app/di"
	"contact_backend/internal/app/router"
	"contact_backend/internal/config"
	sitehandler "contact_backend/internal/feature/site/transport/handler"
	usershandler "contact_backend/internal/feature/users/transport/handler"
	"contact_backend/internal/feature/users/usecase"
	"contact_backend/internal/platform/db"
	platformhandler "contact_backend/internal/platform/http/handler"
	"contact_backend/internal/platform/logging"
	"contact_backend/internal/platform/observability"
	infraredis "contact_backend/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run はサーバーを起動し、シグナルを受けるまでブロックします。
// 起動途中で失敗した場合もdeferでDBとRedisを閉じてからエラーを返します。
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Setup(cfg.App.Env, cfg.App.LogLevel)
	gin.SetMode(cfg.App.GinMode)

	// db
	gdb, err := db.Open(cfg.Database())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("access connection pool: %w", err)
	}

	// Redis（任意）
	var rdb *redisv9.Client
	if cfg.Redis.Addr != "" {
		if tmp, err := infraredis.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			slog.Warn("Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	metrics := observability.NewMetrics()

	// Repository / Usecase
	userRepo := di.NewUserRepository(rdb, gdb, cfg.CacheTTL())
	userUC := usecase.NewUserUsecase(userRepo, usecase.WithMutationObserver(metrics))

	// ルータ生成
	r := router.NewRouter(router.Deps{
		Contact:     usershandler.NewContactHandler(userUC),
		Admin:       usershandler.NewAdminHandler(userUC),
		Static:      sitehandler.NewStaticHandler(cfg.App.StaticDir),
		Health:      platformhandler.NewHealthHandler(sqlDB),
		Metrics:     metrics,
		CORSOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.App.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.App.Addr, "static_dir", cfg.App.StaticDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	var serveErr error
	select {
	case sig := <-ch:
		slog.Info("shutting down", "signal", sig.String())
	case serveErr = <-errCh:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	if serveErr != nil {
		return fmt.Errorf("serve: %w", serveErr)
	}
	return nil
}
