package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/favorite_api/internal/cache"
	"github.com/Skotchmaster/favorite_api/internal/catalog"
	"github.com/Skotchmaster/favorite_api/internal/config"
	"github.com/Skotchmaster/favorite_api/internal/favorites"
	"github.com/Skotchmaster/favorite_api/internal/handlers"
	"github.com/Skotchmaster/favorite_api/internal/logging"
	"github.com/Skotchmaster/favorite_api/internal/queue"
	"github.com/Skotchmaster/favorite_api/internal/token"
	httpserver "github.com/Skotchmaster/favorite_api/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(context.Background(), configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	redisCache, err := cache.New(configuration.REDIS_URL)
	if err != nil {
		// cache is an optimization only, run without it
		logger.Warn("cache unavailable, continuing without it", "error", err)
		redisCache = nil
	}

	catalogClient := catalog.NewClient(configuration.CATALOG_URL)
	products := &catalog.CachedSource{Client: catalogClient, Cache: redisCache}

	producer := queue.NewProducer(configuration.KAFKA_ADDRESS, configuration.QUEUE_TOPIC)

	tokens := &token.Service{
		DB:        db,
		Secret:    []byte(configuration.SECRET_KEY),
		Algorithm: configuration.ALGORITHM,
		Expiry:    time.Duration(configuration.TOKEN_EXPIRE_MINUTES) * time.Minute,
	}

	store := &favorites.Store{DB: db}
	service := &favorites.Service{
		DB:        db,
		Store:     store,
		Products:  products,
		Publisher: producer,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		AuthHandler:     &handlers.AuthHandler{DB: db, Tokens: tokens},
		ClientHandler:   &handlers.ClientHandler{DB: db},
		ProductHandler:  &handlers.ProductHandler{Catalog: catalogClient, Products: products},
		FavoriteHandler: &handlers.FavoriteHandler{Service: service},
		QueueHandler:    &handlers.FavoriteQueueHandler{Service: service},
		QueryHandler:    &handlers.QueryHandler{Service: service},
		Tokens:          tokens,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("queue close error: %v", err)
	}

	if err := redisCache.Close(); err != nil {
		log.Printf("cache close error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	log.Println("shutdown complete")
}
