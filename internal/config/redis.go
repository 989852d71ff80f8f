package config

// NewRedisClient builds the single Redis client shared by the response
// cache and the token-bucket rate limiter (see internal/middleware). A
// single coach's traffic is small, so a small fixed connection pool is
// enough; neither the cache nor the limiter is required for the
// reservation core's correctness, so a failed connection here disables
// both rather than stopping the server from starting.

import (
	"context"
	"crypto/tls"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient reads the following environment variables:
//
//	REDIS_HOST, REDIS_PORT – hostname and port of the Redis server
//	REDIS_ADDR             – host:port shorthand, takes precedence
//	REDIS_PASSWORD         – optional password
//	REDIS_DB               – database number (default 0)
//	REDIS_TLS              – enable TLS when "true" or "1"
func NewRedisClient() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         redisAddr(),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           redisDB(),
		TLSConfig:    redisTLSConfig(),
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("config: redis unreachable, caching and rate limiting are disabled: %v", err)
		return nil
	}
	return client
}

func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		return host + ":" + port
	}
	return "localhost:6379"
}

func redisDB() int {
	n, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil {
		return 0
	}
	return n
}

func redisTLSConfig() *tls.Config {
	v := os.Getenv("REDIS_TLS")
	if strings.EqualFold(v, "true") || v == "1" {
		return &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return nil
}
