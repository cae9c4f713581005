package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	"github.com/ariefcatur/go-product-reviews/internal/config"
	"github.com/ariefcatur/go-product-reviews/internal/httpx"
	kafkax "github.com/ariefcatur/go-product-reviews/internal/kafka"
	"github.com/ariefcatur/go-product-reviews/internal/postgres"
	"github.com/ariefcatur/go-product-reviews/internal/redisx"
	"github.com/ariefcatur/go-product-reviews/internal/warmer"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if len(cfg.KafkaBrokers) == 0 || cfg.RedisAddr == "" {
		log.Fatal("warmer needs KAFKA_BROKERS and REDIS_ADDR")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Service
	svc := &warmer.Service{
		Store:       &catalog.Repo{DB: db},
		Redis:       rdb,
		Cache:       redisx.NewStatsCache(rdb, cfg.StatsCacheTTL),
		Resources:   httpx.Transformer{AssetURL: cfg.AssetURL},
		ServiceName: cfg.ServiceName + "-warmer",
	}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.WarmerGroup, catalog.TopicCatalogEvents, cfg.WarmerWorkers)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Printf("warmer consumer started: group=%s topic=%s workers=%d", cfg.WarmerGroup, catalog.TopicCatalogEvents, cfg.WarmerWorkers)
		if err := cons.Start(ctx, svc.HandleCatalogEvent); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down consumer...")
	cancel()
	<-done
}
