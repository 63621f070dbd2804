package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Connect parses a redis:// URL, dials and pings the server.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("redis URL is empty")
	}
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// ConnectOrSkip returns a connected client, or nil with a no-op cleanup when
// url is empty or unreachable. Callers then run without a cache.
func ConnectOrSkip(ctx context.Context, url string, logger *slog.Logger) (*goredis.Client, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(url) == "" {
		logger.Info("redis URL not set, catalog cache disabled")
		return nil, func() {}
	}
	client, err := Connect(ctx, url)
	if err != nil {
		logger.Warn("failed to connect to redis, catalog cache disabled", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("redis connection established")
	return client, func() { _ = client.Close() }
}
