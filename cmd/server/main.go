package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"natesa/backend/config"
	"natesa/backend/pkg/database"
	applogger "natesa/backend/pkg/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "natesa",
		Short:         "NaTeSA membership backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default ./config/config.yaml)")

	serve := newServeCommand(&configPath)
	root.AddCommand(serve)
	root.AddCommand(newMigrateCommand(&configPath))
	root.AddCommand(newCreateAdminCommand(&configPath))

	// no subcommand means serve
	root.RunE = serve.RunE
	return root
}

// app shared bootstrap for every subcommand
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func bootstrap(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	logger.Info("database connected", zap.String("host", cfg.Database.Host))

	return &app{cfg: cfg, logger: logger, db: db}, nil
}

func (a *app) close() {
	if sqlDB, _ := a.db.DB(); sqlDB != nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}
