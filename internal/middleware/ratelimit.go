package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/orirot10/shortstay-api/internal/model"
)

// RateLimiterConfig はレート制限の設定を保持する。
// 各レートはreq/min/user単位で指定する。
type RateLimiterConfig struct {
	GeneralPerMin   int           // 認証済みAPI全般のレート
	RecCreatePerMin int           // 推薦作成のレート
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralPerMin:   120,
		RecCreatePerMin: 10,
		CleanupInterval: 5 * time.Minute,
	}
}

// userLimiter はユーザーごとのレートリミッターとアクセス時刻を保持する。
type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiterSet は1種類のレート制限についてユーザーごとのリミッターを管理する。
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*userLimiter
	rate     rate.Limit
	burst    int
}

// newLimiterSet はperMin（req/min）からlimiterSetを生成する。
// バーストサイズは1分間の許容リクエスト数に等しい。
func newLimiterSet(perMin int) *limiterSet {
	return &limiterSet{
		limiters: make(map[string]*userLimiter),
		rate:     rate.Limit(float64(perMin) / 60.0),
		burst:    perMin,
	}
}

// allow は指定ユーザーのリクエストを許可するかを判定する。
func (s *limiterSet) allow(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ul, exists := s.limiters[userID]
	if !exists {
		ul = &userLimiter{limiter: rate.NewLimiter(s.rate, s.burst)}
		s.limiters[userID] = ul
	}
	ul.lastAccess = time.Now()

	return ul.limiter.Allow()
}

// cleanup は最終アクセス時刻がttlを超えたエントリを削除する。
func (s *limiterSet) cleanup(ttl time.Duration) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, ul := range s.limiters {
		if now.Sub(ul.lastAccess) > ttl {
			delete(s.limiters, userID)
		}
	}
}

// count は現在管理されているエントリ数を返す。テストおよびメトリクス用。
func (s *limiterSet) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// RateLimiter はユーザーごとのレート制限を管理する。
// 認証済みAPI全般のレート制限と推薦作成のレート制限の2種類を提供する。
type RateLimiter struct {
	config  RateLimiterConfig
	general *limiterSet
	rec     *limiterSet
	stopCh  chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:  config,
		general: newLimiterSet(config.GeneralPerMin),
		rec:     newLimiterSet(config.RecCreatePerMin),
		stopCh:  make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GeneralMiddleware は認証済みAPI全般のレート制限ミドルウェアを返す。
// リクエストコンテキストに認証済みIdentityが含まれている必要がある
// （認証ミドルウェアの後に配置）。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(rl.general, "general")
}

// RecommendationMiddleware は推薦作成専用のレート制限ミドルウェアを返す。
// API全般のレート制限とは独立に動作する。
func (rl *RateLimiter) RecommendationMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(rl.rec, "recommendation_create")
}

// GeneralLimiterCount は現在管理されているAPI全般リミッターのエントリ数を返す。
func (rl *RateLimiter) GeneralLimiterCount() int {
	return rl.general.count()
}

// RecommendationLimiterCount は現在管理されている推薦作成リミッターのエントリ数を返す。
func (rl *RateLimiter) RecommendationLimiterCount() int {
	return rl.rec.count()
}

func (rl *RateLimiter) middleware(set *limiterSet, limitType string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := IdentityFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			if !set.allow(ident.Subject) {
				writeRateLimitResponse(w, set.rate)
				slog.Warn("rate limit exceeded",
					slog.String("user_id", ident.Subject),
					slog.String("limit_type", limitType),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	ttl := rl.config.CleanupInterval * 2

	for {
		select {
		case <-ticker.C:
			rl.general.cleanup(ttl)
			rl.rec.cleanup(ttl)
		case <-rl.stopCh:
			return
		}
	}
}

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(map[string]string{
		"code":     "RATE_LIMIT_EXCEEDED",
		"message":  "リクエストが多すぎます。",
		"category": "system",
		"action":   "しばらく待ってから再度お試しください。",
	})
}
