package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nomadcabs/nomad-cabs-be/internal/config"
	"github.com/nomadcabs/nomad-cabs-be/internal/events"
	"github.com/nomadcabs/nomad-cabs-be/internal/server"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage/jsonfile"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	defer store.Close()

	pub, err := openPublisher(cfg)
	if err != nil {
		log.Fatalf("init event publisher: %v", err)
	}
	defer pub.Close()

	srv := server.New(cfg, store, pub)

	go func() {
		log.Printf("Nomad Cabs backend listening on %s (storage=%s)", cfg.HTTPAddress(), cfg.StorageDriver)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.StorageDriver == config.DriverPostgres {
		return postgres.New(ctx, cfg.DatabaseURL)
	}
	return jsonfile.Open(cfg.DataDir)
}

func openPublisher(cfg config.Config) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		return events.Noop{}, nil
	}
	return events.NewRabbitMQ(cfg.AMQPURL)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
