package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisBus broadcasts changes between service instances through a redis
// pub/sub channel.
type RedisBus struct {
	client  *redis.Client
	channel string
	log     zerolog.Logger
}

func NewRedisBus(ctx context.Context, addr, password string, db int, channel string, log zerolog.Logger) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisBus{client: client, channel: channel, log: log}, nil
}

func (b *RedisBus) Publish(ctx context.Context, change Change) error {
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context) <-chan Change {
	out := make(chan Change, 16)
	pubsub := b.client.Subscribe(ctx, b.channel)

	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var change Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					b.log.Warn().Err(err).Msg("discarding malformed change notification")
					continue
				}
				select {
				case out <- change:
				default:
				}
			}
		}
	}()
	return out
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}
