// Package alert は運用アラートの外部Webhook通知を提供する。
//
// ヘルスチェック失敗やデータベース接続断などの重大イベントを
// 運用者が設定したWebhook URLへPOSTする。
// 通知の失敗はログに記録するだけで、呼び出し元の処理には影響させない。
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/orirot10/shortstay-api/internal/security"
)

// Notifier はアラート通知機能のインターフェースを定義する。
type Notifier interface {
	// Notify はイベント名とメッセージをWebhookへ送信する。
	// 送信エラーはログに記録し、errorとして返す。
	// 呼び出し元はエラーを無視してよい。
	Notify(ctx context.Context, event, message string) error
}

// payload はWebhookへ送信するJSONボディ。
type payload struct {
	Event   string    `json:"event"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// webhookNotifier はNotifierのWebhook実装。
// SSRF防止機能付きのHTTPクライアントで送信する。
type webhookNotifier struct {
	webhookURL string
	client     *http.Client
}

// compile-time interface check
var _ Notifier = (*webhookNotifier)(nil)

// NewWebhookNotifier はWebhook通知のNotifierを生成する。
// webhookURLは事前にguard.ValidateURLで検証し、
// 不正なURLの場合はエラーを返す。
func NewWebhookNotifier(webhookURL string, guard security.WebhookGuardService, timeout time.Duration) (*webhookNotifier, error) {
	if err := guard.ValidateURL(webhookURL); err != nil {
		return nil, fmt.Errorf("invalid webhook URL: %w", err)
	}

	return &webhookNotifier{
		webhookURL: webhookURL,
		client:     guard.NewSafeClient(timeout),
	}, nil
}

// Notify はイベント名とメッセージをWebhookへPOSTする。
func (n *webhookNotifier) Notify(ctx context.Context, event, message string) error {
	body, err := json.Marshal(payload{
		Event:   event,
		Message: message,
		Time:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		slog.Warn("alert webhook request failed",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("alert webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		slog.Warn("alert webhook returned non-success status",
			slog.String("event", event),
			slog.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// noopNotifier は何もしないNotifier。Webhook URL未設定時に使用する。
type noopNotifier struct{}

// compile-time interface check
var _ Notifier = (*noopNotifier)(nil)

// NewNoopNotifier は何もしないNotifierを生成する。
func NewNoopNotifier() *noopNotifier {
	return &noopNotifier{}
}

// Notify は何もせずnilを返す。
func (n *noopNotifier) Notify(_ context.Context, _, _ string) error {
	return nil
}
