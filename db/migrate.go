package db

import (
	"fmt"

	"bank-ledger/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations brings the schema up to date before the ledger starts
// serving operations.
func RunMigrations(migrationPath string) error {
	mig, err := migrate.New(migrationPath, ConnString())
	if err != nil {
		return fmt.Errorf("cannot create migrate instance: %w", err)
	}
	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrate up: %w", err)
	}
	logger.Log.Info("Database schema is up to date")
	return nil
}
