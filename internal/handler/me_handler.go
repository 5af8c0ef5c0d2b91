package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/orirot10/shortstay-api/internal/auth"
	"github.com/orirot10/shortstay-api/internal/middleware"
	"github.com/orirot10/shortstay-api/internal/model"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	// Bootstrap は認証済みIdentityからユーザー行を遅延作成し、保存後のユーザーを返す。
	Bootstrap(ctx context.Context, ident *auth.Identity) (*model.User, error)
}

// MeHandler は認証済みユーザー自身のプロフィールのHTTPハンドラー。
type MeHandler struct {
	service ProfileServiceInterface
}

// NewMeHandler はMeHandlerを生成する。
func NewMeHandler(service ProfileServiceInterface) *MeHandler {
	return &MeHandler{service: service}
}

// meResponse は自分のプロフィールのAPIレスポンス。
type meResponse struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	AvatarURL string            `json:"avatarUrl"`
	HostStats hostStatsResponse `json:"hostStats"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Me は自分のプロフィールを取得する。初回アクセス時はユーザー行が作成される。
// GET /me
func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	user, err := h.service.Bootstrap(r.Context(), ident)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": meResponse{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			AvatarURL: user.AvatarURL,
			HostStats: toHostStatsResponse(user.HostStats),
			CreatedAt: user.CreatedAt,
		},
	})
}
