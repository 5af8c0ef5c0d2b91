// Package profile は認証済みユーザー自身のプロフィールのドメインロジックを提供する。
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/orirot10/shortstay-api/internal/auth"
	"github.com/orirot10/shortstay-api/internal/model"
	"github.com/orirot10/shortstay-api/internal/repository"
)

// Service は認証済みユーザープロフィールのサービス層。
// 初回アクセス時のユーザー行の遅延作成を担う。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// Bootstrap は認証済みIdentityからユーザー行をinsert-if-absentで作成し、
// 保存後のユーザーを返す。
// email / name / avatarUrlはIdPの最新値で常に上書きされ、
// createdAtとホスト統計は既存の値が保持される。
func (s *Service) Bootstrap(ctx context.Context, ident *auth.Identity) (*model.User, error) {
	now := time.Now().UTC()
	user := &model.User{
		ID:        ident.Subject,
		Email:     ident.Email,
		Name:      ident.Name,
		AvatarURL: ident.AvatarURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Bootstrap(ctx, user); err != nil {
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	// 既存行のcreatedAtとホスト統計を反映するため保存後の行を読み直す
	saved, err := s.userRepo.FindByID(ctx, ident.Subject)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if saved == nil {
		return nil, fmt.Errorf("作成したユーザーが見つかりません: %s", ident.Subject)
	}

	return saved, nil
}
