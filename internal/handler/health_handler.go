package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/orirot10/shortstay-api/internal/alert"
)

// healthCheckTimeout はデータベース疎通確認のタイムアウト。
const healthCheckTimeout = 2 * time.Second

// HealthHandler はヘルスチェックのHTTPハンドラー。
// データベースへの疎通を確認し、失敗時はアラートを通知する。
type HealthHandler struct {
	db       *sql.DB
	notifier alert.Notifier
}

// NewHealthHandler はHealthHandlerを生成する。
func NewHealthHandler(db *sql.DB, notifier alert.Notifier) *HealthHandler {
	return &HealthHandler{db: db, notifier: notifier}
}

// Health はサービスの稼働状態を返す。
// データベースに到達できない場合は503を返す。
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		slog.Error("health check failed", slog.String("error", err.Error()))
		// 通知の失敗はヘルスチェック結果に影響させない
		_ = h.notifier.Notify(r.Context(), "health_check_failed", "database ping failed: "+err.Error())

		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
