package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// Broadcaster implements ports.Broadcaster over Redis Pub/Sub. Each
// event is published as a JSON envelope on a single channel; dashboard
// processes subscribe to the channel and fan out to their clients.
type Broadcaster struct {
	client  *goredis.Client
	channel string
}

// NewBroadcaster creates a Broadcaster publishing to channel.
func NewBroadcaster(client *goredis.Client, channel string) *Broadcaster {
	return &Broadcaster{client: client, channel: channel}
}

type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Broadcast publishes the event to the dashboard channel. Delivery is
// fire-and-forget; subscribers that are offline miss the event.
func (b *Broadcaster) Broadcast(ctx context.Context, event string, payload any) error {
	msg, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("marshal broadcast event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, msg).Err(); err != nil {
		return fmt.Errorf("publish broadcast event: %w", err)
	}
	return nil
}
