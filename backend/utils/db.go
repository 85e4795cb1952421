package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/docstore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB connects to PostgreSQL.
func InitDB(cfg *config.Config, logger *log.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.New(logger.StandardLog(), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// OpenDocumentStore opens the backend selected by DB_DRIVER.
func OpenDocumentStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (docstore.Store, error) {
	switch cfg.DBDriver {
	case "memory":
		logger.Warn("using in-memory document store; progress is lost on restart")
		return docstore.NewMemory(), nil
	case "sqlite":
		logger.Info("opening sqlite document store", "path", cfg.SQLitePath)
		return docstore.NewSQLite(ctx, cfg.SQLitePath)
	case "postgres":
		db, err := InitDB(cfg, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("opened postgres document store", "host", cfg.DBHost, "db", cfg.DBName)
		return docstore.NewGorm(db)
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}
