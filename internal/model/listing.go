package model

import "time"

// ListingStatus はリスティングの公開状態を表す。
type ListingStatus string

const (
	// ListingStatusActive は公開中のリスティングを示す。
	ListingStatusActive ListingStatus = "ACTIVE"
	// ListingStatusInactive は非公開のリスティングを示す。
	ListingStatusInactive ListingStatus = "INACTIVE"
)

// IsValid はリスティングステータスが定義済みの値かを検証する。
func (s ListingStatus) IsValid() bool {
	return s == ListingStatusActive || s == ListingStatusInactive
}

// Listing は短期滞在の物件リスティングを表す。
// OwnerIDはUser.IDを値参照する（ストアレベルの外部キー制約はない）。
type Listing struct {
	ID               string
	OwnerID          string
	Title            string
	Area             string
	PricePerNight    int // 整数、0以上
	Description      string
	AvailabilityText string // 空文字列は未設定を表す
	Status           ListingStatus
	Images           []string // ストレージパスのリスト
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
