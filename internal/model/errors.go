// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, conflict, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized            = "UNAUTHORIZED"
	ErrCodeValidationFailed        = "VALIDATION_FAILED"
	ErrCodeInvalidID               = "INVALID_ID"
	ErrCodeListingNotFound         = "LISTING_NOT_FOUND"
	ErrCodeSelfRecommendation      = "SELF_RECOMMENDATION"
	ErrCodeDuplicateRecommendation = "DUPLICATE_RECOMMENDATION"
)

// NewUnauthorizedError は認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "有効なBearerトークンを付与してください。",
	}
}

// NewValidationError は入力値の検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("入力値が不正です: %s", reason),
		Category: "validation",
		Action:   "リクエストボディの各項目を確認してください。",
	}
}

// NewInvalidIDError はID形式エラーを生成する。
func NewInvalidIDError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidID,
		Message:  fmt.Sprintf("IDの形式が不正です: %s", id),
		Category: "validation",
		Action:   "URLに含まれるIDを確認してください。",
	}
}

// NewListingNotFoundError はリスティング未検出エラーを生成する。
func NewListingNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeListingNotFound,
		Message:  fmt.Sprintf("指定されたリスティングが見つかりません: %s", id),
		Category: "validation",
		Action:   "リスティングIDを確認してください。",
	}
}

// NewSelfRecommendationError は自己推薦エラーを生成する。
func NewSelfRecommendationError() *APIError {
	return &APIError{
		Code:     ErrCodeSelfRecommendation,
		Message:  "自分自身を推薦することはできません。",
		Category: "validation",
		Action:   "他のホストに対して推薦を作成してください。",
	}
}

// NewDuplicateRecommendationError は推薦の重複エラーを生成する。
// 同一の (ホスト, 作成者) の組に対する2件目の推薦で返される。
func NewDuplicateRecommendationError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateRecommendation,
		Message:  "このホストは既に推薦済みです。",
		Category: "conflict",
		Action:   "ホストごとに作成できる推薦は1件のみです。",
	}
}
