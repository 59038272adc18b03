package cmd

import (
	"fmt"

	"pick-reconciler/core/config"
	"pick-reconciler/core/database"
	"pick-reconciler/core/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

// bootstrap loads configuration, builds the logger and connects to the order
// database. When requireDB is false a failed connection is only logged.
func bootstrap(requireDB bool) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logg = logg.With(zap.String("station", cfg.Server.Station))

	rt := &runtime{cfg: cfg, logger: logg}

	conn, err := database.Connect(cfg.Database)
	switch {
	case err == nil:
		rt.db = conn
		logg.Info("Connected to order database", zap.String("driver", cfg.Database.Driver))
	case requireDB:
		return nil, fmt.Errorf("database connection required: %w", err)
	default:
		logg.Warn("Optional database connection failed", zap.Error(err))
	}

	return rt, nil
}
