package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     pass,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}))
}

func NewWithClient(rdb *redis.Client) *Cache { return &Cache{RDB: rdb} }

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

func (c *Cache) key(k string) string { return c.Prefix + k }

// loader 回源，同时决定本次写入的 TTL
type loader func(ctx context.Context) ([]byte, time.Duration, error)

func (c *Cache) getOrLoad(ctx context.Context, key string, load loader) ([]byte, error) {
	key = c.key(key)
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// 同 key 并发回源只走一次
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, ttl, err := load(ctx)
		if err != nil {
			return nil, err
		}
		// 写缓存失败不影响结果
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Del 失效；redis 不可用时返回错误由调用方决定是否忽略
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.key(k))
	}
	return c.RDB.Del(ctx, full...).Err()
}
