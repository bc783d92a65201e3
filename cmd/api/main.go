package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calldesk/internal/auth"
	"calldesk/internal/config"
	"calldesk/internal/reservations"
	"calldesk/internal/scheduler"
	"calldesk/pkg/logger"
	"calldesk/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local-dev convenience; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	resService := reservations.NewService(reservations.NewPostgresRepo(db))

	// Periodic expiry sweep. The leader lock keeps replicas from
	// sweeping at the same time; the sweep itself is idempotent, so a
	// lost lock is harmless.
	sweepLock, err := utils.NewLeaderLock(rdb, "calldesk:sweep:leader", cfg.Sweep.LockTTL)
	if err != nil {
		log.Error("sweep lock init failed", "err", err)
		os.Exit(1)
	}
	sweeper, err := scheduler.New(cfg.Sweep.Interval, func(ctx context.Context) {
		ok, err := sweepLock.TryAcquire(ctx)
		if err != nil {
			log.Warn("sweep lock acquire failed", "err", err)
			return
		}
		if !ok {
			return
		}
		defer func() {
			if err := sweepLock.Release(ctx); err != nil {
				log.Warn("sweep lock release failed", "err", err)
			}
		}()

		result, err := resService.SweepExpired(ctx)
		if err != nil {
			log.Error("expiry sweep failed", "swept", result.Count, "err", err)
			return
		}
		if result.Count > 0 {
			log.Info("expiry sweep completed reservations", "count", result.Count)
		}
	})
	if err != nil {
		log.Error("scheduler init failed", "err", err)
		os.Exit(1)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, cfg, authManager, resService, rdb)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
