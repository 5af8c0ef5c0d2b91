// Package reputation はホスト評価統計の集計ロジックを提供する。
//
// ホストへの推薦が書き込まれるたびに、可視の推薦全件からavgRatingと
// hostScoreを再計算し、ユーザー行に保存する。
// hostScoreは平均評価に件数ブーストを加えたもので、
// 少数の高評価だけで上位に見えることを防ぐ。
package reputation

import (
	"context"
	"fmt"
	"time"

	"github.com/orirot10/shortstay-api/internal/metrics"
	"github.com/orirot10/shortstay-api/internal/model"
	"github.com/orirot10/shortstay-api/internal/repository"
)

// 件数ブーストの定数。
// 推薦数は20件で頭打ちになり、1件あたり0.03がスコアに加算される。
const (
	boostPerRecommendation = 0.03
	boostCountCap          = 20
	scoreMax               = 5.0
)

// Aggregator はホスト評価統計の再計算機能のインターフェースを定義する。
type Aggregator interface {
	// Recompute は指定ホストの評価統計を可視の推薦全件から再計算し、
	// ユーザー行に保存して返す。
	// 推薦が0件の場合はavgRating=0、hostScore=0となる。
	Recompute(ctx context.Context, hostID string) (*model.HostStats, error)
}

// Service はAggregatorの実装。
type Service struct {
	recRepo   repository.RecommendationRepository
	userRepo  repository.UserRepository
	collector metrics.MetricsCollector
}

// compile-time interface check
var _ Aggregator = (*Service)(nil)

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	recRepo repository.RecommendationRepository,
	userRepo repository.UserRepository,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		recRepo:   recRepo,
		userRepo:  userRepo,
		collector: collector,
	}
}

// Recompute は指定ホストの評価統計を再計算して保存する。
//
// 計算式:
//
//	avgRating = overall評価の算術平均（0件なら0）
//	boost     = min(件数, 20) * 0.03
//	hostScore = clamp(avgRating + boost, 0, 5)
func (s *Service) Recompute(ctx context.Context, hostID string) (*model.HostStats, error) {
	ratings, err := s.recRepo.ListVisibleOverallRatings(ctx, hostID)
	if err != nil {
		s.collector.RecordStatsRecomputeFailure()
		return nil, fmt.Errorf("推薦評価の取得に失敗しました: %w", err)
	}

	stats := Compute(ratings)
	stats.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.UpsertHostStats(ctx, hostID, stats); err != nil {
		s.collector.RecordStatsRecomputeFailure()
		return nil, fmt.Errorf("ホスト統計の保存に失敗しました: %w", err)
	}

	s.collector.RecordStatsRecomputed()
	return &stats, nil
}

// Compute はoverall評価のリストから評価統計を純粋計算する。
// UpdatedAtは設定しない。
func Compute(ratings []int) model.HostStats {
	n := len(ratings)
	if n == 0 {
		return model.HostStats{RecsCount: 0, AvgRating: 0, HostScore: 0}
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(n)

	boostCount := n
	if boostCount > boostCountCap {
		boostCount = boostCountCap
	}
	score := avg + float64(boostCount)*boostPerRecommendation
	if score > scoreMax {
		score = scoreMax
	}
	if score < 0 {
		score = 0
	}

	return model.HostStats{
		RecsCount: n,
		AvgRating: avg,
		HostScore: score,
	}
}
