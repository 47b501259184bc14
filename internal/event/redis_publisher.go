package event

import (
	"context"
	"encoding/json"
	"fmt"
)

// ChannelPublisher is the slice of the redis client this subscriber needs.
type ChannelPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// RedisPublisher forwards events as JSON onto a redis pub/sub channel.
type RedisPublisher struct {
	client  ChannelPublisher
	channel string
}

// NewRedisPublisher creates a RedisPublisher.
func NewRedisPublisher(client ChannelPublisher, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Name implements Subscriber.
func (p *RedisPublisher) Name() string { return "redis:" + p.channel }

// Handle implements Subscriber.
func (p *RedisPublisher) Handle(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return p.client.Publish(ctx, p.channel, payload)
}
