// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/orirot10/shortstay-api/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Bootstrap はユーザー行をinsert-if-absentで作成する。
	// created_atは挿入時のみ設定し、email / name / avatar_url / updated_atは常に上書きする。
	Bootstrap(ctx context.Context, user *model.User) error

	// UpsertHostStats はホスト統計をユーザー行にUPSERTする。
	// ユーザー行が存在しない場合は統計のみを持つ行を作成する。
	// updated_atとstats_updated_atは常に更新する。
	UpsertHostStats(ctx context.Context, hostID string, stats model.HostStats) error
}

// ListingFilter はリスティング一覧の絞り込み条件。
type ListingFilter struct {
	Area     string              // 空の場合は絞り込まない（完全一致）
	Status   model.ListingStatus // 空の場合はACTIVEのみ
	PriceMax *int                // nilの場合は絞り込まない（price_per_night <= PriceMax）
	Limit    int
}

// ListingRepository はリスティングデータの永続化インターフェース。
type ListingRepository interface {
	// Create はリスティングを作成する。
	Create(ctx context.Context, listing *model.Listing) error

	// FindByID は指定IDのリスティングを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Listing, error)

	// List は条件に一致するリスティングをcreated_at降順で返す。
	List(ctx context.Context, filter ListingFilter) ([]*model.Listing, error)
}

// RequestRepository はレンタルリクエストデータの永続化インターフェース。
type RequestRepository interface {
	// Create はレンタルリクエストを作成する。
	Create(ctx context.Context, req *model.RentalRequest) error

	// ListActive は募集中のリクエストをcreated_at降順で返す。
	// areaが空でない場合は完全一致で絞り込む。
	ListActive(ctx context.Context, area string, limit int) ([]*model.RentalRequest, error)

	// ListByAuthor は指定ユーザーの全リクエストをステータスに関係なくcreated_at降順で返す。
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]*model.RentalRequest, error)
}

// RecommendationRepository は推薦データの永続化インターフェース。
type RecommendationRepository interface {
	// Create は推薦を作成する。
	// (host_id, author_id) の一意制約に違反した場合は
	// model.NewDuplicateRecommendationError() を返す。
	Create(ctx context.Context, rec *model.Recommendation) error

	// ListVisibleByHost は指定ホストの非表示でない推薦をcreated_at降順で返す。
	ListVisibleByHost(ctx context.Context, hostID string, limit int) ([]*model.Recommendation, error)

	// ListVisibleOverallRatings は指定ホストの非表示でない推薦の
	// overall評価のみを射影して返す。並び順は保証しない。
	ListVisibleOverallRatings(ctx context.Context, hostID string) ([]int, error)
}
