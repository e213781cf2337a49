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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"natesa/backend/internal/api/handler"
	"natesa/backend/internal/api/router"
	"natesa/backend/internal/repository"
	"natesa/backend/internal/service"
	"natesa/backend/pkg/database"
	"natesa/backend/pkg/jwt"
	"natesa/backend/pkg/redis"
)

func newServeCommand(configPath *string) *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			return serve(a, skipMigrate)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply pending migrations on start")
	return cmd
}

func serve(a *app, skipMigrate bool) error {
	cfg, logger := a.cfg, a.logger

	if !skipMigrate {
		sqlDB, err := a.db.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB: %w", err)
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Redis is optional; without it revocation is off and rate limiting is per process
	var rdb *redis.Client
	var tokens service.TokenStore
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, token revocation disabled", zap.Error(err))
		} else {
			rdb, tokens = client, client
			defer rdb.Close()
		}
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)

	repo := repository.NewRepository(a.db)
	svc := service.NewService(cfg, repo, jwtMgr, tokens, logger)
	h := handler.NewHandler(svc, cfg)
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}
