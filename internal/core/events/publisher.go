package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Publisher struct {
	client *redis.Client
	maxLen int64
}

// NewPublisher maxLen>0 时按近似长度裁剪 stream
func NewPublisher(client *redis.Client, maxLen int64) *Publisher {
	return &Publisher{client: client, maxLen: maxLen}
}

func (p *Publisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"event": eventJSON},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
