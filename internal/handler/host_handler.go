package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/orirot10/shortstay-api/internal/host"
	"github.com/orirot10/shortstay-api/internal/middleware"
	"github.com/orirot10/shortstay-api/internal/model"
)

// HostServiceInterface はホストハンドラーが必要とするサービスインターフェース。
type HostServiceInterface interface {
	// GetProfile は指定ホストの公開プロフィールを返す。ユーザー行が存在しなくても404にはしない。
	GetProfile(ctx context.Context, hostID string) (*host.Profile, error)
	// ListRecommendations は指定ホストの可視な推薦を新しい順で返す。
	ListRecommendations(ctx context.Context, hostID string) ([]*model.Recommendation, error)
	// Recommend は推薦を作成し、再計算後のホスト統計を返す。
	Recommend(ctx context.Context, authorID, hostID string, input host.RecommendInput) (*host.RecommendResult, error)
}

// HostHandler はホストプロフィールと推薦のHTTPハンドラー。
type HostHandler struct {
	service HostServiceInterface
}

// NewHostHandler はHostHandlerを生成する。
func NewHostHandler(service HostServiceInterface) *HostHandler {
	return &HostHandler{service: service}
}

// hostProfileResponse はホスト公開プロフィールのAPIレスポンス。
type hostProfileResponse struct {
	ID        string            `json:"id"`
	Name      *string           `json:"name"`
	AvatarURL *string           `json:"avatarUrl"`
	HostStats hostStatsResponse `json:"hostStats"`
	CreatedAt *time.Time        `json:"createdAt,omitempty"`
}

// recommendationResponse は推薦のAPIレスポンス。
type recommendationResponse struct {
	ID        string        `json:"id"`
	HostID    string        `json:"hostId"`
	AuthorID  string        `json:"authorId"`
	Ratings   model.Ratings `json:"ratings"`
	Text      *string       `json:"text"`
	CreatedAt time.Time     `json:"createdAt"`
}

// createRecommendationRequest は推薦作成のボディ。
type createRecommendationRequest struct {
	Ratings model.Ratings `json:"ratings"`
	Text    string        `json:"text"`
}

func toRecommendationResponse(rec *model.Recommendation) recommendationResponse {
	resp := recommendationResponse{
		ID:        rec.ID,
		HostID:    rec.HostID,
		AuthorID:  rec.AuthorID,
		Ratings:   rec.Ratings,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Text != "" {
		text := rec.Text
		resp.Text = &text
	}
	return resp
}

// GetProfile はホストの公開プロフィールを取得する。
// ユーザー行がまだ存在しないホストIDでも404にはならない。
// GET /hosts/:hostId
func (h *HostHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	hostID := chi.URLParam(r, "hostId")

	profile, err := h.service.GetProfile(r.Context(), hostID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := hostProfileResponse{
		ID:        profile.ID,
		HostStats: toHostStatsResponse(profile.HostStats),
		CreatedAt: profile.CreatedAt,
	}
	if profile.Name != "" {
		name := profile.Name
		resp.Name = &name
	}
	if profile.AvatarURL != "" {
		avatarURL := profile.AvatarURL
		resp.AvatarURL = &avatarURL
	}

	writeJSON(w, http.StatusOK, map[string]any{"host": resp})
}

// ListRecommendations はホストへの推薦一覧を取得する。
// GET /hosts/:hostId/recommendations
func (h *HostHandler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	hostID := chi.URLParam(r, "hostId")

	recs, err := h.service.ListRecommendations(r.Context(), hostID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]recommendationResponse, len(recs))
	for i, rec := range recs {
		items[i] = toRecommendationResponse(rec)
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Recommend はホストへの推薦を作成し、再計算後の統計を返す。
// POST /hosts/:hostId/recommendations
func (h *HostHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	ident, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	hostID := chi.URLParam(r, "hostId")

	var req createRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	result, err := h.service.Recommend(r.Context(), ident.Subject, hostID, host.RecommendInput{
		Ratings: req.Ratings,
		Text:    req.Text,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        result.Recommendation.ID,
		"hostStats": toHostStatsResponse(result.HostStats),
	})
}
