package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ConnectRedis returns nil when addr is empty or the server does not answer;
// callers treat a nil client as "redis disabled".
func ConnectRedis(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		log.Warn().Msg("REDIS_URL not set, realtime notifications and rate limits are disabled")
		return nil
	}

	opts, err := redisOptions(addr)
	if err != nil {
		log.Warn().Err(err).Msg("invalid REDIS_URL, continuing without redis")
		return nil
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, continuing without redis")
		_ = client.Close()
		return nil
	}

	log.Info().Str("addr", opts.Addr).Msg("redis connected")
	return client
}

func redisOptions(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: addr}, nil
}
