package database

import (
	"fmt"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/ticnote/internal/config"
)

// NewRedis connects to the broadcast relay's redis and checks it answers.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Pass,
		DB:       0,
	})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}
