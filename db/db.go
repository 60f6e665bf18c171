package db

import (
	"database/sql"
	"fmt"

	"bank-ledger/common"
	"bank-ledger/config"
	"bank-ledger/logger"

	_ "github.com/lib/pq"
)

// Connect opens the single long-lived store handle used by every
// repository. Failure here is the one unrecoverable condition.
func Connect() (*sql.DB, error) {
	cfg := config.AppConfig.Database

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	safeConnStr := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Name)

	logger.Log.WithField("connection", safeConnStr).Info("Attempting to connect to the database")

	database, err := sql.Open("postgres", connStr)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to open database connection")
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	if err = database.Ping(); err != nil {
		logger.Log.WithError(err).Error("Failed to ping database")
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	logger.Log.Info("Database connection established successfully")
	return database, nil
}

// ConnString builds the URL form of the connection string used by the
// migration runner.
func ConnString() string {
	cfg := config.AppConfig.Database
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}
