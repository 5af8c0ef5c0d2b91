package model

import "time"

// RequestStatus はレンタルリクエストの状態を表す。
type RequestStatus string

const (
	// RequestStatusActive は募集中のリクエストを示す。
	RequestStatusActive RequestStatus = "ACTIVE"
	// RequestStatusClosed は終了したリクエストを示す。
	RequestStatusClosed RequestStatus = "CLOSED"
)

// RentalRequest は借り手が投稿する「部屋を探しています」リクエストを表す。
// 日付範囲と予算上限は任意項目で、未設定はnilで表現する。
type RentalRequest struct {
	ID        string
	AuthorID  string
	Area      string
	DateFrom  *time.Time
	DateTo    *time.Time
	BudgetMax *int
	Text      string
	Status    RequestStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
