package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/ariefcatur/go-storefront/internal/invalidator"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logx"
	"github.com/ariefcatur/go-storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logx.New(cfg.LogLevel).With("service", cfg.ServiceName+"-invalidator")

	if cfg.RedisAddr == "" || len(cfg.KafkaBrokers) == 0 {
		log.Error("invalidator needs both REDIS_ADDR and KAFKA_BROKERS")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		log.Error("redis", "err", err)
		os.Exit(1)
	}

	svc := &invalidator.Service{
		Cache: redisx.NewQueryCache(rdb, cfg.CatalogCacheTTL),
		Dedup: redisx.NewDeduper(rdb, "invalidator"),
		Log:   log,
	}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.InvalidatorGroup, events.TopicProductChanged, cfg.InvalidatorWorkers, log)
	log.Info("invalidator consumer started",
		"group", cfg.InvalidatorGroup, "topic", events.TopicProductChanged, "workers", cfg.InvalidatorWorkers)
	if err := cons.Start(ctx, svc.HandleProductChanged); err != nil {
		log.Error("consumer exit", "err", err)
		os.Exit(1)
	}
	log.Info("invalidator stopped")
}
