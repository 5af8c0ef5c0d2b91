package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/orirot10/shortstay-api/internal/model"
)

// uniqueViolationCode はPostgreSQLの一意制約違反のエラーコード。
const uniqueViolationCode = "23505"

// PostgresRecommendationRepo はPostgreSQLを使用した推薦リポジトリ。
type PostgresRecommendationRepo struct {
	db *sql.DB
}

// NewPostgresRecommendationRepo はPostgresRecommendationRepoを生成する。
func NewPostgresRecommendationRepo(db *sql.DB) *PostgresRecommendationRepo {
	return &PostgresRecommendationRepo{db: db}
}

// Create は推薦を作成する。
// (host_id, author_id) の一意制約違反はmodel.NewDuplicateRecommendationError()に
// 変換して返す。事前の存在チェックは行わず、同時送信の競合もここで解決される。
func (r *PostgresRecommendationRepo) Create(ctx context.Context, rec *model.Recommendation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recommendations
		     (id, host_id, author_id,
		      rating_overall, rating_trust, rating_accuracy, rating_experience,
		      text, hidden, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.HostID, rec.AuthorID,
		rec.Ratings.Overall, rec.Ratings.Trust,
		rec.Ratings.Accuracy, rec.Ratings.Experience,
		rec.Text, rec.Hidden, rec.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return model.NewDuplicateRecommendationError()
		}
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}

	return nil
}

// ListVisibleByHost は指定ホストの非表示でない推薦をcreated_at降順で返す。
func (r *PostgresRecommendationRepo) ListVisibleByHost(ctx context.Context, hostID string, limit int) ([]*model.Recommendation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, host_id, author_id,
		        rating_overall, rating_trust, rating_accuracy, rating_experience,
		        text, hidden, created_at
		 FROM recommendations
		 WHERE host_id = $1 AND hidden = FALSE
		 ORDER BY created_at DESC
		 LIMIT $2`,
		hostID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	var recs []*model.Recommendation
	for rows.Next() {
		rec := &model.Recommendation{}
		if err := rows.Scan(
			&rec.ID, &rec.HostID, &rec.AuthorID,
			&rec.Ratings.Overall, &rec.Ratings.Trust,
			&rec.Ratings.Accuracy, &rec.Ratings.Experience,
			&rec.Text, &rec.Hidden, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendation rows: %w", err)
	}

	return recs, nil
}

// ListVisibleOverallRatings は指定ホストの非表示でない推薦のoverall評価のみを返す。
// 統計再計算用の射影クエリで、行全体は読み込まない。
func (r *PostgresRecommendationRepo) ListVisibleOverallRatings(ctx context.Context, hostID string) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rating_overall
		 FROM recommendations
		 WHERE host_id = $1 AND hidden = FALSE`,
		hostID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list overall ratings: %w", err)
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan overall rating: %w", err)
		}
		ratings = append(ratings, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overall ratings: %w", err)
	}

	return ratings, nil
}

// compile-time interface check
var _ RecommendationRepository = (*PostgresRecommendationRepo)(nil)
