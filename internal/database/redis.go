package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 10 * time.Second

// RedisClients holds the two Redis connections the pipeline needs.
// Queue feeds the worker pool: the trigger handler and the daily
// scheduler LPUSH run jobs that workers BLPOP. Because BLPOP parks a
// connection until a job arrives, PubSub gets its own client so the
// websocket hub's subscription to pipeline progress updates is never
// starved by a blocked worker read.
type RedisClients struct {
	Queue  *redis.Client
	PubSub *redis.Client
}

func NewRedisClients(redisURL string) (*RedisClients, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	queue, err := connect(opt, "queue")
	if err != nil {
		return nil, err
	}
	pubsub, err := connect(opt, "pubsub")
	if err != nil {
		queue.Close()
		return nil, err
	}

	return &RedisClients{Queue: queue, PubSub: pubsub}, nil
}

func connect(opt *redis.Options, role string) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	cloned := *opt
	client := redis.NewClient(&cloned)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis (%s): %w", role, err)
	}
	return client, nil
}

func (r *RedisClients) Close() {
	r.Queue.Close()
	r.PubSub.Close()
}
