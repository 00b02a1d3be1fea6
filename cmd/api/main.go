package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rfid-wallet-backend/config"
	httpHandler "rfid-wallet-backend/internal/adapter/http/handler"
	pgStorage "rfid-wallet-backend/internal/adapter/storage/postgres"
	redisStorage "rfid-wallet-backend/internal/adapter/storage/redis"
	natsTransport "rfid-wallet-backend/internal/adapter/transport/nats"
	"rfid-wallet-backend/internal/core/ports"
	"rfid-wallet-backend/internal/service"
	"rfid-wallet-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting RFID Wallet Backend")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Connect to the hardware message broker
	nc, err := natsTransport.Connect(cfg.Transport, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to NATS")
	}
	defer nc.Close()
	log.Info().Msg("NATS connected")

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	cardRepo := pgStorage.NewCardRepo(pool)
	productRepo := pgStorage.NewProductRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize transport and broadcast adapters
	topics := natsTransport.TopicsFor(cfg.Transport.TeamID)
	bus := natsTransport.NewBus(nc)
	broadcaster := redisStorage.NewBroadcaster(rdb, cfg.Redis.BroadcastChannel)

	// Initialize the balance authority
	authority := service.NewAuthority(
		walletRepo,
		txRepo,
		productRepo,
		transactor,
		bus,
		broadcaster,
		topics.CardTopup,
		log,
	)

	// Start the hardware listener
	listenerCtx, stopListener := context.WithCancel(ctx)
	defer stopListener()

	listener := natsTransport.NewListener(authority, nc, topics, log)
	listenerDone := make(chan error, 1)
	go func() {
		listenerDone <- listener.Run(listenerCtx)
	}()

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)
	natsHealth := natsTransport.NewHealthCheck(nc)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Authority:      authority,
		Wallets:        walletRepo,
		Transactions:   txRepo,
		Cards:          cardRepo,
		Products:       productRepo,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth, natsHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop the listener and wait for it to drain
	stopListener()
	select {
	case <-listenerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Listener did not drain in time")
	}

	log.Info().Msg("Server exited")
}
