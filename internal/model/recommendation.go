package model

import "time"

// Ratings はレコメンデーションの4軸評価を表す。各値は1〜5の整数。
type Ratings struct {
	Overall    int `json:"overall"`
	Trust      int `json:"trust"`
	Accuracy   int `json:"accuracy"`
	Experience int `json:"experience"`
}

// Recommendation はユーザーがホストに与える信頼の推薦を表す。
// (HostID, AuthorID) の組につき高々1件。作成後は不変。
// Hiddenは集計・一覧から除外するソフトデリートフラグで、
// 現状これをtrueにする操作は公開されていない（モデレーションは外部機能）。
type Recommendation struct {
	ID        string
	HostID    string
	AuthorID  string
	Ratings   Ratings
	Text      string // 空文字列は未設定を表す。最大500文字。
	Hidden    bool
	CreatedAt time.Time
}
