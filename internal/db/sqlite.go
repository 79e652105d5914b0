package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"expense-ledger-go/internal/config"
	"expense-ledger-go/pkg/logger"
)

// NewSQLite opens a pure Go SQLite database with foreign keys enforced.
// SQLite allows one writer, so the pool is limited to one connection.
func NewSQLite(path string, log logger.Logger) (*gorm.DB, error) {
	dsn := sqliteDSN(path)
	log.Info("db: opening sqlite", "path", path)

	gormDB, err := gorm.Open(sqlite.Open(dsn), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	log.Info("db: connected", "driver", config.DriverSQLite)
	return gormDB, nil
}

func sqliteDSN(path string) string {
	if path == "" {
		path = ":memory:"
	}
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return path + separator + "_pragma=foreign_keys(1)"
}
