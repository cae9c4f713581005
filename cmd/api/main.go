package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	"github.com/ariefcatur/go-product-reviews/internal/config"
	"github.com/ariefcatur/go-product-reviews/internal/httpx"
	kafkax "github.com/ariefcatur/go-product-reviews/internal/kafka"
	"github.com/ariefcatur/go-product-reviews/internal/postgres"
	"github.com/ariefcatur/go-product-reviews/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("db schema: %v", err)
	}

	// Redis (opsional)
	rdb := redisx.New(cfg.RedisAddr)
	if rdb != nil {
		defer rdb.Close()
	}

	// Kafka producer (opsional)
	prod := kafkax.NewProducer(cfg.KafkaBrokers, catalog.TopicCatalogEvents, 1024)
	prod.Start(ctx)

	// Repo & handler
	router := httpx.NewRouter(cfg.StorageDir)
	ch := &httpx.CatalogHandler{
		Store:      &catalog.Repo{DB: db},
		Resources:  httpx.Transformer{AssetURL: cfg.AssetURL},
		Service:    cfg.ServiceName,
		Debug:      cfg.Debug,
		StorageDir: cfg.StorageDir,
	}
	if rdb != nil {
		ch.Cache = redisx.NewStatsCache(rdb, cfg.StatsCacheTTL)
		ch.Limiter = redisx.NewLimiter(rdb, "reviews", cfg.ReviewRateLimit)
	}
	if prod != nil {
		ch.Producer = prod
	}
	ch.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s (redis=%t kafka=%t)", cfg.HTTPAddr, rdb != nil, prod != nil)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	prod.Close()      // tutup inbox -> flush & close writer
	prod.WaitClosed() // drain
	cancel()
}
