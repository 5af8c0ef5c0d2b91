package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/orirot10/shortstay-api/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	var statsUpdatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, avatar_url,
		        host_score, avg_rating, recs_count, stats_updated_at,
		        created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(
		&user.ID, &user.Email, &user.Name, &user.AvatarURL,
		&user.HostStats.HostScore, &user.HostStats.AvgRating,
		&user.HostStats.RecsCount, &statsUpdatedAt,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	if statsUpdatedAt.Valid {
		user.HostStats.UpdatedAt = statsUpdatedAt.Time
	}

	return user, nil
}

// Bootstrap はユーザー行をinsert-if-absentで作成する。
// created_atは挿入時のみ設定し、email / name / avatar_url / updated_atは
// 検証済みのIdPクレームで常に上書きする。ホスト統計には触れない。
func (r *PostgresUserRepo) Bootstrap(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, avatar_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		     email      = EXCLUDED.email,
		     name       = EXCLUDED.name,
		     avatar_url = EXCLUDED.avatar_url,
		     updated_at = EXCLUDED.updated_at`,
		user.ID, user.Email, user.Name, user.AvatarURL,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to bootstrap user: %w", err)
	}

	return nil
}

// UpsertHostStats はホスト統計をユーザー行にUPSERTする。
// ユーザー行が存在しない場合は統計のみを持つ行を作成する（他項目は空のまま）。
func (r *PostgresUserRepo) UpsertHostStats(ctx context.Context, hostID string, stats model.HostStats) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, host_score, avg_rating, recs_count, stats_updated_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5, $5)
		 ON CONFLICT (id) DO UPDATE SET
		     host_score       = EXCLUDED.host_score,
		     avg_rating       = EXCLUDED.avg_rating,
		     recs_count       = EXCLUDED.recs_count,
		     stats_updated_at = EXCLUDED.stats_updated_at,
		     updated_at       = EXCLUDED.updated_at`,
		hostID, stats.HostScore, stats.AvgRating, stats.RecsCount, stats.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert host stats: %w", err)
	}

	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
