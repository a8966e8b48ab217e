package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialTimeout = 5 * time.Second

// Config selects the Redis server holding the lodge collections.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

// Open dials Redis, checks the connection with PING and returns a Store.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = dialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		ClientName:   "lodge-membership",
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, storeError("connect", "", err)
	}
	return NewStore(client), nil
}
