// File: app/app.go
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bank-ledger/config"
	"bank-ledger/db"
	"bank-ledger/logger"
	"bank-ledger/menu"
	"bank-ledger/repository"
	"bank-ledger/service"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---
	// The single store handle and cache client are injected here; no layer
	// opens its own connection.
	accountRepo := repository.NewAccountRepository(database)
	transactionRepo := repository.NewTransactionRepository(database)

	sessionCfg := config.AppConfig.Session
	authService := service.NewAuthService(
		[]byte(sessionCfg.SecretKey),
		time.Duration(sessionCfg.TTLMinutes)*time.Minute,
		redisClient,
	)
	ledgerService := service.NewLedgerService(database, accountRepo, transactionRepo, authService, redisClient)

	sessionMenu := menu.New(ledgerService, os.Stdin, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.Info("Ledger ready")
	sessionMenu.Run(ctx)
	logger.Log.Info("Session ended")
}
