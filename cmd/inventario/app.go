package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/yourusername/inventario/config"
	"github.com/yourusername/inventario/internal/domain/repository"
	"github.com/yourusername/inventario/internal/infrastructure/parser"
	"github.com/yourusername/inventario/internal/infrastructure/storage"
	"github.com/yourusername/inventario/internal/usecase"
	"github.com/yourusername/inventario/pkg/logger"
)

type app struct {
	cfg          *config.Config
	logger       *zap.Logger
	inventory    usecase.InventoryUseCase
	activity     usecase.ActivityUseCase
	activityRepo repository.ActivityRepository
}

func newApp(cfg *config.Config, baseLogger *zap.Logger) (*app, error) {
	var (
		activityRepo repository.ActivityRepository
		err          error
	)
	if cfg.ActivityDBPath != "" {
		activityRepo, err = storage.NewSQLiteActivityRepository(cfg.ActivityDBPath, cfg.ActivityMaxEntries)
		if err != nil {
			return nil, err
		}
	} else {
		activityRepo = storage.NewMemoryActivityRepository(cfg.ActivityMaxEntries)
	}

	inventory := usecase.NewInventoryUseCase(
		storage.NewMemoryProductRepository(),
		storage.NewJSONCatalogStore(cfg.InventoryFile, logger.Named(baseLogger, "storage.catalog")),
		parser.NewExcelParser(logger.Named(baseLogger, "parser.excel")),
		parser.NewExcelWriter(logger.Named(baseLogger, "parser.excel")),
		usecase.InventoryOptions{AutoSave: cfg.AutoSave},
		logger.Named(baseLogger, "usecase.inventory"),
	)

	return &app{
		cfg:          cfg,
		logger:       baseLogger,
		inventory:    inventory,
		activity:     usecase.NewActivityUseCase(activityRepo),
		activityRepo: activityRepo,
	}, nil
}

func (a *app) Close() {
	if err := a.activityRepo.Close(); err != nil {
		a.logger.Error("failed to close activity log", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// record logs instead of failing the command when the activity log is unavailable
func (a *app) record(ctx context.Context, action, details string) {
	if err := a.activity.Record(ctx, action, details, nil); err != nil {
		a.logger.Warn("activity not recorded", zap.String("action", action), zap.Error(err))
	}
}
