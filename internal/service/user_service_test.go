package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"users-api/internal/core/events"
	"users-api/internal/domain"
	"users-api/internal/repo"
	"users-api/internal/repo/repotest"
)

type published struct {
	stream, typ string
	user        domain.User
}

type recordingPublisher struct {
	events []published
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, stream, eventType string, data any) error {
	if p.err != nil {
		return p.err
	}
	u, _ := data.(*domain.User)
	p.events = append(p.events, published{stream: stream, typ: eventType, user: *u})
	return nil
}

func newService(t *testing.T, pub EventPublisher) *UserService {
	t.Helper()
	return NewUserService(repo.NewUserRepo(repotest.NewDB(t)), pub, nil)
}

func ptr[T any](v T) *T { return &v }

func TestUserService_Lifecycle(t *testing.T) {
	pub := &recordingPublisher{}
	s := newService(t, pub)
	ctx := context.Background()

	u, err := s.Create(ctx, CreateUserInput{Name: " Ana ", Email: "ana@example.com ", Age: 30})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" || u.Name != "Ana" || u.Email != "ana@example.com" || u.IsActive {
		t.Fatalf("Create = %+v", u)
	}

	got, err := s.Get(ctx, u.ID)
	if err != nil || got == nil || *got != *u {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	upd, err := s.Update(ctx, u.ID, domain.UserPatch{Age: ptr(31)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.Age != 31 || upd.Name != "Ana" || upd.Email != u.Email || upd.IsActive != u.IsActive {
		t.Fatalf("Update = %+v", upd)
	}

	del, err := s.Delete(ctx, u.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if *del != *upd {
		t.Fatalf("Delete = %+v, want %+v", del, upd)
	}
	if got, _ := s.Get(ctx, u.ID); got != nil {
		t.Fatalf("Get after delete = %+v", got)
	}

	wantTypes := []string{events.UserCreated, events.UserUpdated, events.UserDeleted}
	if len(pub.events) != len(wantTypes) {
		t.Fatalf("published %d events, want %d", len(pub.events), len(wantTypes))
	}
	for i, typ := range wantTypes {
		if pub.events[i].typ != typ || pub.events[i].stream != events.UserEventsStream {
			t.Errorf("event %d = %s/%s, want %s", i, pub.events[i].stream, pub.events[i].typ, typ)
		}
		if pub.events[i].user.ID != u.ID {
			t.Errorf("event %d user id = %q", i, pub.events[i].user.ID)
		}
	}
}

func TestUserService_EmptyPatchPublishesNothing(t *testing.T) {
	pub := &recordingPublisher{}
	s := newService(t, pub)
	ctx := context.Background()
	u, _ := s.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@example.com", Age: 30})

	if _, err := s.Update(ctx, u.ID, domain.UserPatch{}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want only the create", len(pub.events))
	}
}

func TestUserService_PublishFailureIsNotFatal(t *testing.T) {
	s := newService(t, &recordingPublisher{err: errors.New("redis down")})
	if _, err := s.Create(context.Background(), CreateUserInput{Name: "Ana", Email: "ana@example.com", Age: 30}); err != nil {
		t.Fatalf("Create should succeed when publishing fails: %v", err)
	}
}

func TestUserService_Errors(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()
	_, _ = s.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@example.com", Age: 30})

	before := testutil.ToFloat64(storeOps.WithLabelValues("create", "conflict"))
	if _, err := s.Create(ctx, CreateUserInput{Name: "Other", Email: "ana@example.com", Age: 1}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if after := testutil.ToFloat64(storeOps.WithLabelValues("create", "conflict")); after != before+1 {
		t.Fatalf("conflict counter %v -> %v", before, after)
	}

	if _, err := s.Update(ctx, "missing", domain.UserPatch{Age: ptr(2)}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Delete(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestUserService_CountMatchesList(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()
	for _, e := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		if _, err := s.Create(ctx, CreateUserInput{Name: "n", Email: e, Age: 1}); err != nil {
			t.Fatalf("Create %s: %v", e, err)
		}
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if int64(len(list)) != n || n != 3 {
		t.Fatalf("len(List)=%d Count=%d", len(list), n)
	}
	if u, _ := s.GetByName(ctx, "n"); u == nil {
		t.Fatal("GetByName returned nil")
	}
}
