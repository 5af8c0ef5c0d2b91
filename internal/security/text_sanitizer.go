// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はユーザー入力の自由記述テキスト（物件タイトル・説明、
// リクエスト本文、推薦コメント等）をサニタイズし、
// XSS攻撃などのセキュリティリスクからユーザーを保護する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はプレーンテキストのサニタイズ機能のインターフェースを定義する。
// 自由記述フィールドの保存前に使用される。
type TextSanitizerService interface {
	// SanitizePlain は入力からすべてのHTMLタグを除去し、
	// 前後の空白をトリムしたプレーンテキストを返す。
	// このAPIで扱う自由記述フィールドはすべてプレーンテキストであり、
	// マークアップは許可されない。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizePlain(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// compile-time interface check
var _ TextSanitizerService = (*textSanitizer)(nil)

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはすべてのタグと属性を除去する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizePlain は入力からすべてのHTMLタグを除去したプレーンテキストを返す。
// StrictPolicyはテキストをHTMLエンティティにエスケープするため、
// プレーンテキストとして保存できるようにアンエスケープして戻す。
func (s *textSanitizer) SanitizePlain(raw string) string {
	stripped := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
