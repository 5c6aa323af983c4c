package repo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"users-api/internal/core/cache"
	"users-api/internal/domain"
)

// CachedUserRepo 在 FindByID 上做 redis 读穿透；写操作后失效对应 key。
// 其余读（列表/计数/按名）直接透传，避免一致性问题。
type CachedUserRepo struct {
	domain.UserRepository
	c   *cache.Cache
	ttl time.Duration
	log *zap.Logger
}

func NewCachedUserRepo(next domain.UserRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CachedUserRepo {
	if l == nil {
		l = zap.NewNop()
	}
	return &CachedUserRepo{UserRepository: next, c: c, ttl: ttl, log: l}
}

var _ domain.UserRepository = (*CachedUserRepo)(nil)

func userKey(id string) string { return "user:id:" + id }

func (r *CachedUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return cache.GetOrLoadJSON(r.c, ctx, userKey(id), r.ttl, func(ctx context.Context) (*domain.User, error) {
		return r.UserRepository.FindByID(ctx, id)
	})
}

func (r *CachedUserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.UserRepository.Create(ctx, u); err != nil {
		return err
	}
	// 清掉可能存在的负缓存
	r.invalidate(ctx, u.ID)
	return nil
}

func (r *CachedUserRepo) Update(ctx context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	u, err := r.UserRepository.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return u, nil
}

func (r *CachedUserRepo) Delete(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.UserRepository.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return u, nil
}

func (r *CachedUserRepo) invalidate(ctx context.Context, id string) {
	if err := r.c.Del(ctx, userKey(id)); err != nil {
		r.log.Warn("cache invalidate failed", zap.String("user_id", id), zap.Error(err))
	}
}
