package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/gorm"

	"expense-ledger-go/internal/domain/ledger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigratePostgres applies the embedded SQL migrations. It uses its own
// connection because closing the migrator closes the database it was given.
func MigratePostgres(dsn string) error {
	migrateDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := migratepgx.WithInstance(migrateDB, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("create pgx driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// AutoMigrate creates the schema from the models. SQLite uses it.
func AutoMigrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(&ledger.Category{}, &ledger.Record{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
