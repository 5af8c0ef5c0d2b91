package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/orirot10/shortstay-api/internal/auth"
	"github.com/orirot10/shortstay-api/internal/model"
)

// mockProfileService はProfileServiceInterfaceのモック実装。
type mockProfileService struct {
	bootstrapFunc func(ctx context.Context, ident *auth.Identity) (*model.User, error)
}

func (m *mockProfileService) Bootstrap(ctx context.Context, ident *auth.Identity) (*model.User, error) {
	return m.bootstrapFunc(ctx, ident)
}

// compile-time interface check
var _ ProfileServiceInterface = (*mockProfileService)(nil)

func TestMeHandler_Me(t *testing.T) {
	service := &mockProfileService{
		bootstrapFunc: func(_ context.Context, ident *auth.Identity) (*model.User, error) {
			return &model.User{
				ID:        ident.Subject,
				Email:     "user@example.com",
				Name:      "山田太郎",
				HostStats: model.HostStats{HostScore: 4.1, AvgRating: 4.0, RecsCount: 3},
				CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	h := NewMeHandler(service)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/me", nil), "idp-sub-1")
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		User meResponse `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if body.User.ID != "idp-sub-1" {
		t.Errorf("ID = %q, want idp-sub-1", body.User.ID)
	}
	if body.User.HostStats.RecsCount != 3 {
		t.Errorf("RecsCount = %d, want 3", body.User.HostStats.RecsCount)
	}
}

func TestMeHandler_Me_Unauthenticated(t *testing.T) {
	h := NewMeHandler(&mockProfileService{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestMeHandler_Me_ServiceError(t *testing.T) {
	service := &mockProfileService{
		bootstrapFunc: func(_ context.Context, _ *auth.Identity) (*model.User, error) {
			return nil, errors.New("db down")
		},
	}
	h := NewMeHandler(service)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/me", nil), "idp-sub-1")
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
