// Package redisbus stores settings in Redis and broadcasts changes over pub/sub.
package redisbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "conjuga:settings:"
	// Channel carries change notifications. The payload is the publisher's
	// origin id and is only used to skip a process's own messages.
	Channel = "conjuga:settings:changed"
)

// Bus is a settings backend over two Redis clients: one for commands and a
// dedicated one for the subscription.
type Bus struct {
	cmd    *redis.Client
	pubsub *redis.Client
	origin string
}

// NewFromURL connects to the Redis server at redisURL and pings it.
func NewFromURL(ctx context.Context, redisURL string) (*Bus, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := redis.NewClient(opt)
	if err := cmd.Ping(pingCtx).Err(); err != nil {
		_ = cmd.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	pubsubOpt := *opt
	pubsub := redis.NewClient(&pubsubOpt)
	if err := pubsub.Ping(pingCtx).Err(); err != nil {
		_ = cmd.Close()
		_ = pubsub.Close()
		return nil, fmt.Errorf("ping redis (pubsub): %w", err)
	}
	return New(cmd, pubsub), nil
}

// New wraps existing clients. cmd and pubsub may be the same client.
func New(cmd, pubsub *redis.Client) *Bus {
	return &Bus{cmd: cmd, pubsub: pubsub, origin: uuid.NewString()}
}

// Close closes both clients.
func (b *Bus) Close() error {
	err := b.cmd.Close()
	if b.pubsub != b.cmd {
		err = errors.Join(err, b.pubsub.Close())
	}
	return err
}

// Get implements settings.Backend.
func (b *Bus) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := b.cmd.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set implements settings.Backend.
func (b *Bus) Set(ctx context.Context, key, value string) error {
	return b.cmd.Set(ctx, keyPrefix+key, value, 0).Err()
}

// Publish implements settings.Publisher.
func (b *Bus) Publish(ctx context.Context) error {
	return b.cmd.Publish(ctx, Channel, b.origin).Err()
}

// Watch implements settings.Watcher. Messages published by this Bus are skipped.
func (b *Bus) Watch(ctx context.Context, onChange func()) error {
	sub := b.pubsub.Subscribe(ctx, Channel)
	defer func() {
		_ = sub.Close()
	}()
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", Channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if msg.Payload == b.origin {
				continue
			}
			onChange()
		}
	}
}
