package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/contabank/ledger-core/internal/adapter/http/controller"
	"github.com/contabank/ledger-core/internal/adapter/http/middleware"
	"github.com/contabank/ledger-core/internal/adapter/http/router"
	"github.com/contabank/ledger-core/internal/adapter/repository/postgres"
	"github.com/contabank/ledger-core/internal/config"
	"github.com/contabank/ledger-core/internal/events"
	eventskafka "github.com/contabank/ledger-core/internal/events/kafka"
	"github.com/contabank/ledger-core/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelBoot()

	if err := postgres.RunMigrations(bootCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(bootCtx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	var publisher events.Publisher
	if cfg.EventsEnabled() {
		kafkaPublisher := eventskafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	store := postgres.NewStore(db)
	ledgerService := services.NewLedgerService(store, services.DefaultFeePolicy(), publisher)
	ledgerController := controller.NewLedgerController(ledgerService)
	authMiddleware := middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey)

	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router.New(ledgerController, authMiddleware),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("ledger server listening on %s", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve http: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown http server: %v", err)
	}
}
