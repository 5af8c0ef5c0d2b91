package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/orirot10/shortstay-api/internal/model"
)

// PostgresListingRepo はPostgreSQLを使用したリスティングリポジトリ。
type PostgresListingRepo struct {
	db *sql.DB
}

// NewPostgresListingRepo はPostgresListingRepoを生成する。
func NewPostgresListingRepo(db *sql.DB) *PostgresListingRepo {
	return &PostgresListingRepo{db: db}
}

// Create はリスティングを作成する。
func (r *PostgresListingRepo) Create(ctx context.Context, listing *model.Listing) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO listings
		     (id, owner_id, title, area, price_per_night, description,
		      availability_text, status, images, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		listing.ID, listing.OwnerID, listing.Title, listing.Area,
		listing.PricePerNight, listing.Description, listing.AvailabilityText,
		string(listing.Status), pq.Array(listing.Images),
		listing.CreatedAt, listing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}

	return nil
}

// FindByID は指定IDのリスティングを取得する。見つからない場合はnilを返す。
func (r *PostgresListingRepo) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	listing := &model.Listing{}
	var status string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, area, price_per_night, description,
		        availability_text, status, images, created_at, updated_at
		 FROM listings WHERE id = $1`,
		id,
	).Scan(
		&listing.ID, &listing.OwnerID, &listing.Title, &listing.Area,
		&listing.PricePerNight, &listing.Description, &listing.AvailabilityText,
		&status, pq.Array(&listing.Images),
		&listing.CreatedAt, &listing.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find listing by ID: %w", err)
	}

	listing.Status = model.ListingStatus(status)
	return listing, nil
}

// List は条件に一致するリスティングをcreated_at降順で返す。
// Statusが空の場合はACTIVEのみを対象とする。
func (r *PostgresListingRepo) List(ctx context.Context, filter ListingFilter) ([]*model.Listing, error) {
	status := filter.Status
	if status == "" {
		status = model.ListingStatusActive
	}

	conds := []string{"status = $1"}
	args := []any{string(status)}

	if filter.Area != "" {
		args = append(args, filter.Area)
		conds = append(conds, "area = $"+strconv.Itoa(len(args)))
	}
	if filter.PriceMax != nil {
		args = append(args, *filter.PriceMax)
		conds = append(conds, "price_per_night <= $"+strconv.Itoa(len(args)))
	}

	args = append(args, filter.Limit)
	query := `SELECT id, owner_id, title, area, price_per_night, description,
	                 availability_text, status, images, created_at, updated_at
	          FROM listings
	          WHERE ` + strings.Join(conds, " AND ") + `
	          ORDER BY created_at DESC
	          LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var listings []*model.Listing
	for rows.Next() {
		listing := &model.Listing{}
		var rowStatus string
		if err := rows.Scan(
			&listing.ID, &listing.OwnerID, &listing.Title, &listing.Area,
			&listing.PricePerNight, &listing.Description, &listing.AvailabilityText,
			&rowStatus, pq.Array(&listing.Images),
			&listing.CreatedAt, &listing.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		listing.Status = model.ListingStatus(rowStatus)
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listing rows: %w", err)
	}

	return listings, nil
}

// compile-time interface check
var _ ListingRepository = (*PostgresListingRepo)(nil)
