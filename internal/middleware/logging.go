package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/orirot10/shortstay-api/internal/auth"
)

// identityHolderKey はロギング用のidentityHolderをコンテキストに格納するためのキー。
var identityHolderKey = contextKey("identityHolder")

// identityHolder は内側の認証ミドルウェアが確定させたユーザー情報を、
// 外側のロギングミドルウェアへ引き渡すための入れ物。
// コンテキスト値は内側から外側へ伝播しないため、共有ポインタで受け渡す。
type identityHolder struct {
	mu    sync.Mutex
	ident *auth.Identity
}

func (h *identityHolder) set(ident *auth.Identity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ident = ident
}

func (h *identityHolder) get() *auth.Identity {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ident
}

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader はステータスコードを記録してから委譲する。
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write はデータを書き込む。WriteHeaderが未呼び出しの場合は200を記録する。
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// NewLoggingMiddleware はリクエストのJSON構造化ログを出力するミドルウェアを返す。
// ログにはmethod、path、status、duration_ms、user_id（認証済みの場合）を含む。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			holder := &identityHolder{}
			ctx := context.WithValue(r.Context(), identityHolderKey, holder)

			next.ServeHTTP(rec, r.WithContext(ctx))

			duration := time.Since(start)
			durationMs := float64(duration.Nanoseconds()) / float64(time.Millisecond)

			args := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", durationMs),
			}

			// 認証済みユーザーの場合はsubjectを追加
			ident := holder.get()
			if ident == nil {
				// 認証ミドルウェアより内側に配置された場合はコンテキストから直接取得する
				if ctxIdent, err := IdentityFromContext(r.Context()); err == nil {
					ident = ctxIdent
				}
			}
			if ident != nil {
				args = append(args, slog.String("user_id", ident.Subject))
			}

			// ステータスコードに応じてログレベルを変更
			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "http_request", args...)
		})
	}
}
