// Package db opens the gorm connection and migrates the schema.
package db

import (
	"fmt"
	"strings"
	"time"

	"blogicum/internal/config"
	"blogicum/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects with the configured driver and runs AutoMigrate.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg.DatabaseURL))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	gormCfg := &gorm.Config{TranslateError: true, NowFunc: utcNow}
	if cfg.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	database, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established", zap.String("driver", cfg.DBDriver))

	if cfg.DBDriver == "sqlite" {
		if err := prepareSQLite(database, cfg.DatabaseURL); err != nil {
			return nil, err
		}
	}

	if err := Migrate(database); err != nil {
		return nil, err
	}
	log.Info("Database migration completed")
	return database, nil
}

// OpenSQLite opens a SQLite database with foreign keys enforced and migrates it.
// ":memory:" gives every caller its own private database.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(sqlite.Open(sqliteDSN(dsn)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        utcNow,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := prepareSQLite(database, dsn); err != nil {
		return nil, err
	}
	if err := Migrate(database); err != nil {
		return nil, err
	}
	return database, nil
}

// utcNow keeps every timestamp gorm writes in UTC, so text-stored times
// sort chronologically on SQLite.
func utcNow() time.Time {
	return time.Now().UTC()
}

// Migrate creates or updates the tables for every model.
func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func prepareSQLite(database *gorm.DB, dsn string) error {
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("sqlite handle: %w", err)
	}
	// An in-memory database lives and dies with its connection.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		sqlDB.SetMaxOpenConns(1)
	}
	// ON DELETE CASCADE / SET NULL only fire with this pragma on.
	if err := database.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	return nil
}

// sqliteDSN turns on foreign keys for every pooled connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}
