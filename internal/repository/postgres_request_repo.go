package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/orirot10/shortstay-api/internal/model"
)

// PostgresRequestRepo はPostgreSQLを使用したレンタルリクエストリポジトリ。
type PostgresRequestRepo struct {
	db *sql.DB
}

// NewPostgresRequestRepo はPostgresRequestRepoを生成する。
func NewPostgresRequestRepo(db *sql.DB) *PostgresRequestRepo {
	return &PostgresRequestRepo{db: db}
}

// Create はレンタルリクエストを作成する。
func (r *PostgresRequestRepo) Create(ctx context.Context, req *model.RentalRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rental_requests
		     (id, author_id, area, date_from, date_to, budget_max, text,
		      status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		req.ID, req.AuthorID, req.Area, req.DateFrom, req.DateTo,
		req.BudgetMax, req.Text, string(req.Status),
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert rental request: %w", err)
	}

	return nil
}

// ListActive は募集中のリクエストをcreated_at降順で返す。
func (r *PostgresRequestRepo) ListActive(ctx context.Context, area string, limit int) ([]*model.RentalRequest, error) {
	var (
		rows *sql.Rows
		err  error
	)

	const baseQuery = `SELECT id, author_id, area, date_from, date_to, budget_max, text,
	                          status, created_at, updated_at
	                   FROM rental_requests
	                   WHERE status = 'ACTIVE'`

	if area != "" {
		rows, err = r.db.QueryContext(ctx,
			baseQuery+` AND area = $1 ORDER BY created_at DESC LIMIT $2`,
			area, limit,
		)
	} else {
		rows, err = r.db.QueryContext(ctx,
			baseQuery+` ORDER BY created_at DESC LIMIT $1`,
			limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list active rental requests: %w", err)
	}
	defer rows.Close()

	return scanRequestRows(rows)
}

// ListByAuthor は指定ユーザーの全リクエストをステータスに関係なくcreated_at降順で返す。
func (r *PostgresRequestRepo) ListByAuthor(ctx context.Context, authorID string, limit int) ([]*model.RentalRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, author_id, area, date_from, date_to, budget_max, text,
		        status, created_at, updated_at
		 FROM rental_requests
		 WHERE author_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		authorID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rental requests by author: %w", err)
	}
	defer rows.Close()

	return scanRequestRows(rows)
}

// scanRequestRows はクエリ結果をRentalRequestのスライスに変換する。
func scanRequestRows(rows *sql.Rows) ([]*model.RentalRequest, error) {
	var reqs []*model.RentalRequest
	for rows.Next() {
		req := &model.RentalRequest{}
		var (
			dateFrom  sql.NullTime
			dateTo    sql.NullTime
			budgetMax sql.NullInt64
			status    string
		)
		if err := rows.Scan(
			&req.ID, &req.AuthorID, &req.Area, &dateFrom, &dateTo,
			&budgetMax, &req.Text, &status,
			&req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rental request row: %w", err)
		}
		if dateFrom.Valid {
			req.DateFrom = &dateFrom.Time
		}
		if dateTo.Valid {
			req.DateTo = &dateTo.Time
		}
		if budgetMax.Valid {
			v := int(budgetMax.Int64)
			req.BudgetMax = &v
		}
		req.Status = model.RequestStatus(status)
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rental request rows: %w", err)
	}

	return reqs, nil
}

// compile-time interface check
var _ RequestRepository = (*PostgresRequestRepo)(nil)
