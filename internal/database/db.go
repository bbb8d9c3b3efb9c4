package database

import (
	"context"
	"fmt"

	"distribution-backend/internal/config"
	"distribution-backend/internal/store"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns the snapshot slot selected by STORAGE_DRIVER and a function
// that releases its connection.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Slot, func() error, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := Init(cfg)
		if err != nil {
			return nil, nil, err
		}
		slot := NewPostgresSlot(db, cfg.StateKey)
		if err := slot.Migrate(); err != nil {
			return nil, nil, err
		}
		log.Info("using postgres snapshot slot", zap.String("key", cfg.StateKey))
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return slot, sqlDB.Close, nil

	case config.DriverRedis:
		slot := NewRedisSlot(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StateKey)
		if err := slot.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("redis unreachable at %s: %w", cfg.RedisAddr, err)
		}
		log.Info("using redis snapshot slot", zap.String("addr", cfg.RedisAddr), zap.String("key", cfg.StateKey))
		return slot, slot.Close, nil

	case config.DriverMemory:
		log.Warn("using in-memory snapshot slot")
		return store.NewMemorySlot(nil), func() error { return nil }, nil

	default:
		log.Info("using file snapshot slot", zap.String("path", cfg.StoragePath))
		return NewFileSlot(cfg.StoragePath), func() error { return nil }, nil
	}
}

// Init opens the Postgres connection and applies pool settings.
func Init(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	return db, nil
}
