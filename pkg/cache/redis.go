package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	Address  string
	Password string
	DB       int
}

var redisClient *redis.Client

// Init connects the package-level Redis client and verifies the connection.
func Init(cfg Config) error {
	if cfg.Address == "" {
		return fmt.Errorf("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	redisClient = client
	return nil
}

// Client returns the Redis client, or nil before Init succeeds.
func Client() *redis.Client {
	return redisClient
}

func IsInitialized() bool {
	return redisClient != nil
}

func Close() error {
	if redisClient == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	if err := redisClient.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	redisClient = nil
	return nil
}

func Ping() error {
	if redisClient == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
