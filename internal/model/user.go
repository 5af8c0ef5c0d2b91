// Package model はドメインモデルを定義する。
package model

import "time"

// HostStats はホストの評判サマリーを表す。
// レコメンデーションの書き込みのたびに再計算され、ユーザーに埋め込まれる。
type HostStats struct {
	HostScore float64   // [0, 5]
	AvgRating float64   // [0, 5]
	RecsCount int       // >= 0
	UpdatedAt time.Time // 最終再計算日時
}

// User はサービス利用ユーザーを表す。
// IDは外部IdPのsubject（安定した文字列識別子）をそのまま使用する。
// 初回の認証済みプロフィール取得時に遅延作成される。
type User struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
	HostStats HostStats
	CreatedAt time.Time
	UpdatedAt time.Time
}
