package service

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"users-api/internal/core/events"
	"users-api/internal/domain"
)

var storeOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "users_store_operations_total", Help: "Count of user store operations by result"},
	[]string{"op", "result"},
)

func init() { prometheus.MustRegister(storeOps) }

// EventPublisher 事件出口；nil 表示关闭
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

type CreateUserInput struct {
	Name  string
	Email string
	Age   int
}

type UserService struct {
	repo domain.UserRepository
	pub  EventPublisher
	log  *zap.Logger
}

func NewUserService(repo domain.UserRepository, pub EventPublisher, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{repo: repo, pub: pub, log: l}
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	u := &domain.User{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
		Age:   in.Age,
	}
	err := s.repo.Create(ctx, u)
	observe("create", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.UserCreated, u)
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	if p.Name != nil {
		v := strings.TrimSpace(*p.Name)
		p.Name = &v
	}
	if p.Email != nil {
		v := strings.TrimSpace(*p.Email)
		p.Email = &v
	}
	u, err := s.repo.Update(ctx, id, p)
	observe("update", err)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		s.publish(ctx, events.UserUpdated, u)
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.Delete(ctx, id)
	observe("delete", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.UserDeleted, u)
	return u, nil
}

// Get 不存在时返回 (nil, nil)
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	observe("find_by_id", err)
	return u, err
}

func (s *UserService) GetByName(ctx context.Context, name string) (*domain.User, error) {
	u, err := s.repo.FindByName(ctx, name)
	observe("find_by_name", err)
	return u, err
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	us, err := s.repo.FindMany(ctx)
	observe("find_many", err)
	return us, err
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	observe("count", err)
	return n, err
}

func (s *UserService) Search(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	us, total, err := s.repo.Search(ctx, f)
	observe("search", err)
	return us, total, err
}

// publish 失败只记日志，不影响已提交的写
func (s *UserService) publish(ctx context.Context, eventType string, u *domain.User) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, events.UserEventsStream, eventType, u); err != nil {
		s.log.Warn("publish user event failed",
			zap.String("type", eventType),
			zap.String("user_id", u.ID),
			zap.Error(err),
		)
	}
}

func observe(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		result = "not_found"
	case errors.Is(err, domain.ErrDuplicateEmail):
		result = "conflict"
	default:
		result = "error"
	}
	storeOps.WithLabelValues(op, result).Inc()
}
