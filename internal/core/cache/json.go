package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// NegativeTTL 空结果（"null"）最多缓存这么久，防穿透但不长期遮蔽新数据
const NegativeTTL = 5 * time.Second

var nullJSON = []byte("null")

// GetOrLoadJSON 读穿缓存：命中直接解码，未命中调用 load 并写回。
// load 返回 nil 时缓存 "null"，TTL 不超过 NegativeTTL。
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	b, err := c.getOrLoad(ctx, key, func(ctx context.Context) ([]byte, time.Duration, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, 0, err
		}
		if v == nil {
			neg := NegativeTTL
			if ttl > 0 && ttl < neg {
				neg = ttl
			}
			return nullJSON, neg, nil
		}
		b, err := json.Marshal(v)
		return b, ttl, err
	})
	if err != nil {
		return nil, err
	}
	if bytes.Equal(b, nullJSON) {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return &out, nil
}
