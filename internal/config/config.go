package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Skotchmaster/favorite_api/internal/models"
)

type Config struct {
	SECRET_KEY           string
	DATABASE_URL         string
	TOKEN_EXPIRE_MINUTES int
	ALGORITHM            string
	KAFKA_ADDRESS        string
	QUEUE_TOPIC          string
	QUEUE_GROUP          string
	REDIS_URL            string
	CATALOG_URL          string
	PORT                 string
	LOG_LEVEL            string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		SECRET_KEY:           os.Getenv("SECRET_KEY"),
		DATABASE_URL:         os.Getenv("DATABASE_URL"),
		TOKEN_EXPIRE_MINUTES: getenvInt("TOKEN_EXPIRE_MINUTES", 30),
		ALGORITHM:            getenvDefault("ALGORITHM", "HS256"),
		KAFKA_ADDRESS:        os.Getenv("KAFKA_ADDRESS"),
		QUEUE_TOPIC:          getenvDefault("QUEUE_TOPIC", "favorite_events"),
		QUEUE_GROUP:          getenvDefault("QUEUE_GROUP", "favorite-consumer"),
		REDIS_URL:            os.Getenv("REDIS_URL"),
		CATALOG_URL:          getenvDefault("CATALOG_URL", "https://fakestoreapi.com"),
		PORT:                 getenvDefault("PORT", "8080"),
		LOG_LEVEL:            getenvDefault("LOG_LEVEL", "info"),
	}

	if config.SECRET_KEY == "" {
		return nil, fmt.Errorf("SECRET_KEY is not set")
	}
	if config.DATABASE_URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	return config, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DATABASE_URL), &gorm.Config{
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := db.AutoMigrate(&models.Client{}, &models.Favorite{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}
