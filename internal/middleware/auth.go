// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/orirot10/shortstay-api/internal/auth"
	"github.com/orirot10/shortstay-api/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに認証済みユーザー情報を格納するためのキー。
var identityContextKey = contextKey("identity")

// NewAuthMiddleware はAuthorizationヘッダーのBearerトークンを外部IdPに対して
// 検証するミドルウェアを返す。
// 検証済みのIdentityをリクエストコンテキストに注入する。
// ヘッダー欠落・形式不正・検証失敗のリクエストには401 Unauthorizedを返す。
func NewAuthMiddleware(verifier auth.Verifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. AuthorizationヘッダーからBearerトークンを取得
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 2. トークンをIdPに対して検証
			ident, err := verifier.Verify(r.Context(), token)
			if err != nil {
				slog.Warn("token verification failed",
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 3. 認証済みユーザー情報をコンテキストに注入
			// 外側のロギングミドルウェアにも共有ホルダー経由で伝える
			if h, ok := r.Context().Value(identityHolderKey).(*identityHolder); ok {
				h.set(ident)
			}
			ctx := context.WithValue(r.Context(), identityContextKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext はリクエストコンテキストから認証済みユーザー情報を取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (*auth.Identity, error) {
	ident, ok := ctx.Value(identityContextKey).(*auth.Identity)
	if !ok || ident == nil || ident.Subject == "" {
		return nil, fmt.Errorf("identity not found in context")
	}
	return ident, nil
}

// ContextWithIdentity はコンテキストに認証済みユーザー情報を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, ident *auth.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, ident)
}
