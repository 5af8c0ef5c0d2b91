// Package host はホストプロフィールと推薦のドメインロジックを提供する。
package host

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/orirot10/shortstay-api/internal/metrics"
	"github.com/orirot10/shortstay-api/internal/model"
	"github.com/orirot10/shortstay-api/internal/reputation"
	"github.com/orirot10/shortstay-api/internal/repository"
	"github.com/orirot10/shortstay-api/internal/security"
)

// maxRecommendations は推薦一覧の最大件数。
const maxRecommendations = 100

// 推薦入力の境界。
const (
	ratingMin      = 1
	ratingMax      = 5
	recTextMaxLen  = 500
)

// Profile はホストの公開プロフィール。
// ユーザー行が存在しないホストIDに対してもゼロ値の統計で返される。
type Profile struct {
	ID        string
	Name      string
	AvatarURL string
	HostStats model.HostStats
	CreatedAt *time.Time // ユーザー行が存在しない場合はnil
}

// RecommendInput は推薦作成の入力。
type RecommendInput struct {
	Ratings model.Ratings
	Text    string
}

// RecommendResult は推薦作成の結果。
// 作成された推薦と再計算後のホスト統計を含む。
type RecommendResult struct {
	Recommendation *model.Recommendation
	HostStats      model.HostStats
}

// Service はホストプロフィールと推薦のサービス層。
type Service struct {
	userRepo   repository.UserRepository
	recRepo    repository.RecommendationRepository
	aggregator reputation.Aggregator
	sanitizer  security.TextSanitizerService
	collector  metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	recRepo repository.RecommendationRepository,
	aggregator reputation.Aggregator,
	sanitizer security.TextSanitizerService,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		userRepo:   userRepo,
		recRepo:    recRepo,
		aggregator: aggregator,
		sanitizer:  sanitizer,
		collector:  collector,
	}
}

// GetProfile は指定ホストの公開プロフィールを返す。
// ユーザー行がまだ存在しないホストIDに対しても404にはせず、
// ゼロ値の統計を持つプロフィールを返す。
// ホストページはユーザー行の作成（初回認証時）より先に共有されうるため。
func (s *Service) GetProfile(ctx context.Context, hostID string) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("ホストの取得に失敗しました: %w", err)
	}

	if user == nil {
		return &Profile{
			ID:        hostID,
			HostStats: model.HostStats{},
		}, nil
	}

	createdAt := user.CreatedAt
	return &Profile{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		HostStats: user.HostStats,
		CreatedAt: &createdAt,
	}, nil
}

// ListRecommendations は指定ホストの可視な推薦を新しい順で最大100件返す。
func (s *Service) ListRecommendations(ctx context.Context, hostID string) ([]*model.Recommendation, error) {
	recs, err := s.recRepo.ListVisibleByHost(ctx, hostID, maxRecommendations)
	if err != nil {
		return nil, fmt.Errorf("推薦一覧の取得に失敗しました: %w", err)
	}
	return recs, nil
}

// Recommend は作成者からホストへの推薦を作成し、ホスト統計を再計算する。
// 自分自身への推薦は拒否される。
// 同一の (ホスト, 作成者) の組に対する2件目はストアの一意制約により
// DuplicateRecommendationエラーとなる。
func (s *Service) Recommend(ctx context.Context, authorID, hostID string, input RecommendInput) (*RecommendResult, error) {
	if authorID == hostID {
		return nil, model.NewSelfRecommendationError()
	}

	text := s.sanitizer.SanitizePlain(input.Text)
	if err := validateRecommendInput(input.Ratings, text); err != nil {
		return nil, err
	}

	rec := &model.Recommendation{
		ID:        uuid.NewString(),
		HostID:    hostID,
		AuthorID:  authorID,
		Ratings:   input.Ratings,
		Text:      text,
		Hidden:    false,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.recRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.collector.RecordRecommendationCreated()

	stats, err := s.aggregator.Recompute(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("ホスト統計の再計算に失敗しました: %w", err)
	}

	return &RecommendResult{
		Recommendation: rec,
		HostStats:      *stats,
	}, nil
}

func validateRecommendInput(ratings model.Ratings, text string) error {
	for _, axis := range []struct {
		name  string
		value int
	}{
		{"overall", ratings.Overall},
		{"trust", ratings.Trust},
		{"accuracy", ratings.Accuracy},
		{"experience", ratings.Experience},
	} {
		if axis.value < ratingMin || axis.value > ratingMax {
			return model.NewValidationError(fmt.Sprintf("評価%sは%d〜%dの整数で入力してください", axis.name, ratingMin, ratingMax))
		}
	}
	if utf8.RuneCountInString(text) > recTextMaxLen {
		return model.NewValidationError(fmt.Sprintf("コメントは%d文字以内で入力してください", recTextMaxLen))
	}
	return nil
}
