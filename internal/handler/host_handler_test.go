package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/orirot10/shortstay-api/internal/host"
	"github.com/orirot10/shortstay-api/internal/model"
)

// mockHostService はHostServiceInterfaceのモック実装。
type mockHostService struct {
	getProfileFunc          func(ctx context.Context, hostID string) (*host.Profile, error)
	listRecommendationsFunc func(ctx context.Context, hostID string) ([]*model.Recommendation, error)
	recommendFunc           func(ctx context.Context, authorID, hostID string, input host.RecommendInput) (*host.RecommendResult, error)
}

func (m *mockHostService) GetProfile(ctx context.Context, hostID string) (*host.Profile, error) {
	return m.getProfileFunc(ctx, hostID)
}

func (m *mockHostService) ListRecommendations(ctx context.Context, hostID string) ([]*model.Recommendation, error) {
	return m.listRecommendationsFunc(ctx, hostID)
}

func (m *mockHostService) Recommend(ctx context.Context, authorID, hostID string, input host.RecommendInput) (*host.RecommendResult, error) {
	return m.recommendFunc(ctx, authorID, hostID, input)
}

// compile-time interface check
var _ HostServiceInterface = (*mockHostService)(nil)

func TestHostHandler_GetProfile(t *testing.T) {
	created := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	service := &mockHostService{
		getProfileFunc: func(_ context.Context, hostID string) (*host.Profile, error) {
			return &host.Profile{
				ID:        hostID,
				Name:      "山田太郎",
				AvatarURL: "https://example.com/a.png",
				HostStats: model.HostStats{HostScore: 4.2, AvgRating: 4.0, RecsCount: 7},
				CreatedAt: &created,
			}, nil
		},
	}
	h := NewHostHandler(service)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/hosts/host-1", nil), "hostId", "host-1")
	rec := httptest.NewRecorder()
	h.GetProfile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Host hostProfileResponse `json:"host"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if body.Host.Name == nil || *body.Host.Name != "山田太郎" {
		t.Errorf("Name = %v", body.Host.Name)
	}
	if body.Host.HostStats.RecsCount != 7 {
		t.Errorf("RecsCount = %d, want 7", body.Host.HostStats.RecsCount)
	}
}

func TestHostHandler_GetProfile_UnknownHost(t *testing.T) {
	service := &mockHostService{
		getProfileFunc: func(_ context.Context, hostID string) (*host.Profile, error) {
			return &host.Profile{ID: hostID}, nil
		},
	}
	h := NewHostHandler(service)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/hosts/never-seen", nil), "hostId", "never-seen")
	rec := httptest.NewRecorder()
	h.GetProfile(rec, req)

	// 存在しないホストでも404にはしない
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Host hostProfileResponse `json:"host"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if body.Host.Name != nil {
		t.Errorf("Name = %v, want null", body.Host.Name)
	}
	if body.Host.HostStats.HostScore != 0 || body.Host.HostStats.RecsCount != 0 {
		t.Errorf("HostStats = %+v, want zero values", body.Host.HostStats)
	}
}

func TestHostHandler_ListRecommendations(t *testing.T) {
	service := &mockHostService{
		listRecommendationsFunc: func(_ context.Context, hostID string) ([]*model.Recommendation, error) {
			return []*model.Recommendation{
				{
					ID:        "rec-1",
					HostID:    hostID,
					AuthorID:  "author-1",
					Ratings:   model.Ratings{Overall: 5, Trust: 4, Accuracy: 5, Experience: 4},
					Text:      "信頼できるホストでした。",
					CreatedAt: time.Now(),
				},
				{
					ID:       "rec-2",
					HostID:   hostID,
					AuthorID: "author-2",
					Ratings:  model.Ratings{Overall: 4, Trust: 4, Accuracy: 4, Experience: 4},
				},
			}, nil
		},
	}
	h := NewHostHandler(service)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/hosts/host-1/recommendations", nil), "hostId", "host-1")
	rec := httptest.NewRecorder()
	h.ListRecommendations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Items []recommendationResponse `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if len(body.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(body.Items))
	}
	if body.Items[0].Text == nil || *body.Items[0].Text != "信頼できるホストでした。" {
		t.Errorf("Text = %v", body.Items[0].Text)
	}
	// コメント未設定はnull
	if body.Items[1].Text != nil {
		t.Errorf("Text = %v, want null", body.Items[1].Text)
	}
}

func TestHostHandler_Recommend(t *testing.T) {
	var gotAuthorID, gotHostID string
	service := &mockHostService{
		recommendFunc: func(_ context.Context, authorID, hostID string, input host.RecommendInput) (*host.RecommendResult, error) {
			gotAuthorID = authorID
			gotHostID = hostID
			return &host.RecommendResult{
				Recommendation: &model.Recommendation{ID: "rec-1"},
				HostStats:      model.HostStats{HostScore: 5, AvgRating: 5, RecsCount: 1},
			}, nil
		},
	}
	h := NewHostHandler(service)

	body := `{"ratings":{"overall":5,"trust":4,"accuracy":5,"experience":4},"text":"良いホストでした。"}`
	req := httptest.NewRequest(http.MethodPost, "/hosts/host-1/recommendations", strings.NewReader(body))
	req = withURLParam(withIdentity(req, "author-1"), "hostId", "host-1")
	rec := httptest.NewRecorder()
	h.Recommend(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if gotAuthorID != "author-1" || gotHostID != "host-1" {
		t.Errorf("authorID = %q, hostID = %q", gotAuthorID, gotHostID)
	}

	var resp struct {
		ID        string            `json:"id"`
		HostStats hostStatsResponse `json:"hostStats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if resp.ID != "rec-1" {
		t.Errorf("ID = %q, want rec-1", resp.ID)
	}
	if resp.HostStats.RecsCount != 1 {
		t.Errorf("RecsCount = %d, want 1", resp.HostStats.RecsCount)
	}
}

func TestHostHandler_Recommend_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "自己推薦は400", serviceErr: model.NewSelfRecommendationError(), wantStatus: http.StatusBadRequest},
		{name: "重複推薦は409", serviceErr: model.NewDuplicateRecommendationError(), wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockHostService{
				recommendFunc: func(_ context.Context, _, _ string, _ host.RecommendInput) (*host.RecommendResult, error) {
					return nil, tt.serviceErr
				},
			}
			h := NewHostHandler(service)

			body := `{"ratings":{"overall":5,"trust":4,"accuracy":5,"experience":4}}`
			req := httptest.NewRequest(http.MethodPost, "/hosts/host-1/recommendations", strings.NewReader(body))
			req = withURLParam(withIdentity(req, "author-1"), "hostId", "host-1")
			rec := httptest.NewRecorder()
			h.Recommend(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHostHandler_Recommend_Unauthenticated(t *testing.T) {
	h := NewHostHandler(&mockHostService{})

	req := httptest.NewRequest(http.MethodPost, "/hosts/host-1/recommendations", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	h.Recommend(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
