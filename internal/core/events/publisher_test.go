package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestPublisher_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	p := NewPublisher(rdb, 1000)
	data := map[string]string{"id": "u1"}
	if err := p.Publish(context.Background(), UserEventsStream, UserCreated, data); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs, err := rdb.XRange(context.Background(), UserEventsStream, "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	raw, _ := msgs[0].Values["event"].(string)
	var ev struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	if ev.Type != UserCreated || ev.Data["id"] != "u1" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestPublisher_ClosedClient(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	_ = rdb.Close()

	if err := NewPublisher(rdb, 0).Publish(context.Background(), UserEventsStream, UserDeleted, nil); err == nil {
		t.Fatal("expected error from closed client")
	}
}
