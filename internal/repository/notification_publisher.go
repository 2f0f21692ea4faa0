package repository

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/sma-course-patterns/internal/models"
)

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// NotificationPublisher fans schedule notifications out on a Redis pub/sub channel.
type NotificationPublisher struct {
	client  redisPublisher
	channel string
}

// NewNotificationPublisher constructs a publisher. A *redis.Client satisfies client.
func NewNotificationPublisher(client redisPublisher, channel string) *NotificationPublisher {
	if channel == "" {
		channel = "schedule:notifications"
	}
	return &NotificationPublisher{client: client, channel: channel}
}

// Channel returns the pub/sub channel name.
func (p *NotificationPublisher) Channel() string { return p.channel }

// Save implements observer.NotificationSink by publishing the JSON payload.
func (p *NotificationPublisher) Save(ctx context.Context, notification models.Notification) error {
	if p.client == nil {
		return nil
	}
	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification %s: %w", notification.ID, err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}
