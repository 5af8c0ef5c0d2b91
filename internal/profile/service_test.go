package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orirot10/shortstay-api/internal/auth"
	"github.com/orirot10/shortstay-api/internal/model"
	"github.com/orirot10/shortstay-api/internal/repository"
)

// mockUserRepo はrepository.UserRepositoryのモック実装。
type mockUserRepo struct {
	bootstrapFunc func(ctx context.Context, user *model.User) error
	findByIDFunc  func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockUserRepo) Bootstrap(ctx context.Context, user *model.User) error {
	return m.bootstrapFunc(ctx, user)
}

func (m *mockUserRepo) UpsertHostStats(_ context.Context, _ string, _ model.HostStats) error {
	return nil
}

// compile-time interface check
var _ repository.UserRepository = (*mockUserRepo)(nil)

func TestBootstrap_CreatesAndReturnsUser(t *testing.T) {
	var upserted *model.User
	existingCreatedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	repo := &mockUserRepo{
		bootstrapFunc: func(_ context.Context, user *model.User) error {
			upserted = user
			return nil
		},
		findByIDFunc: func(_ context.Context, id string) (*model.User, error) {
			// 既存行: createdAtと統計は保持されている
			return &model.User{
				ID:        id,
				Email:     "user@example.com",
				Name:      "山田太郎",
				HostStats: model.HostStats{HostScore: 4.1, AvgRating: 4.0, RecsCount: 3},
				CreatedAt: existingCreatedAt,
			}, nil
		},
	}

	svc := NewService(repo)
	ident := &auth.Identity{
		Subject:   "idp-sub-1",
		Email:     "user@example.com",
		Name:      "山田太郎",
		AvatarURL: "https://example.com/a.png",
	}

	got, err := svc.Bootstrap(t.Context(), ident)
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}

	if upserted == nil {
		t.Fatal("repository Bootstrap should be called")
	}
	if upserted.ID != "idp-sub-1" {
		t.Errorf("upserted ID = %q, want %q", upserted.ID, "idp-sub-1")
	}
	if upserted.AvatarURL != "https://example.com/a.png" {
		t.Errorf("upserted AvatarURL = %q", upserted.AvatarURL)
	}

	// 返されるのは保存後の行（既存のcreatedAtと統計）
	if !got.CreatedAt.Equal(existingCreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, existingCreatedAt)
	}
	if got.HostStats.RecsCount != 3 {
		t.Errorf("RecsCount = %d, want 3", got.HostStats.RecsCount)
	}
}

func TestBootstrap_UpsertError(t *testing.T) {
	repo := &mockUserRepo{
		bootstrapFunc: func(_ context.Context, _ *model.User) error {
			return errors.New("db down")
		},
	}
	svc := NewService(repo)

	if _, err := svc.Bootstrap(t.Context(), &auth.Identity{Subject: "s"}); err == nil {
		t.Error("Bootstrap() should return error")
	}
}

func TestBootstrap_ReadBackMissing(t *testing.T) {
	repo := &mockUserRepo{
		bootstrapFunc: func(_ context.Context, _ *model.User) error { return nil },
		findByIDFunc: func(_ context.Context, _ string) (*model.User, error) {
			return nil, nil
		},
	}
	svc := NewService(repo)

	if _, err := svc.Bootstrap(t.Context(), &auth.Identity{Subject: "s"}); err == nil {
		t.Error("Bootstrap() should return error when read-back misses")
	}
}
