package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/Skotchmaster/favorite_api/internal/cache"
	"github.com/Skotchmaster/favorite_api/internal/catalog"
	"github.com/Skotchmaster/favorite_api/internal/config"
	"github.com/Skotchmaster/favorite_api/internal/favorites"
	"github.com/Skotchmaster/favorite_api/internal/logging"
	"github.com/Skotchmaster/favorite_api/internal/queue"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	db, err := config.InitDB(ctx, configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	redisCache, err := cache.New(configuration.REDIS_URL)
	if err != nil {
		logger.Warn("cache unavailable, continuing without it", "error", err)
		redisCache = nil
	}

	catalogClient := catalog.NewClient(configuration.CATALOG_URL)
	products := &catalog.CachedSource{Client: catalogClient, Cache: redisCache}

	store := &favorites.Store{DB: db}
	service := &favorites.Service{DB: db, Store: store, Products: products}

	consumer := queue.NewConsumer(
		configuration.KAFKA_ADDRESS,
		configuration.QUEUE_TOPIC,
		configuration.QUEUE_GROUP,
		service,
	)

	logger.Info("consumer started",
		"topic", configuration.QUEUE_TOPIC,
		"group", configuration.QUEUE_GROUP,
	)

	if err := consumer.Run(ctx); err != nil {
		logger.Error("consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		log.Printf("reader close error: %v", err)
	}

	if err := redisCache.Close(); err != nil {
		log.Printf("cache close error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
