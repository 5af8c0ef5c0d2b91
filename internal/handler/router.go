package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/orirot10/shortstay-api/internal/auth"
	"github.com/orirot10/shortstay-api/internal/metrics"
	"github.com/orirot10/shortstay-api/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Verifier          auth.Verifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// メトリクス
	Collector *metrics.Collector
	Gatherer  prometheus.Gatherer

	// ドメインサービス
	ListingService ListingServiceInterface
	RequestService RequestServiceInterface
	HostService    HostServiceInterface
	ProfileService ProfileServiceInterface

	// ヘルスチェック
	HealthHandler *HealthHandler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// 全ルート共通のミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → Logging
//
// 認証が必要なルートにはさらに Auth → RateLimit(General) が適用される。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(deps.Collector.Middleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	listingHandler := NewListingHandler(deps.ListingService)
	requestHandler := NewRequestHandler(deps.RequestService)
	hostHandler := NewHostHandler(deps.HostService)
	meHandler := NewMeHandler(deps.ProfileService)

	// --- 認証不要のルート ---

	r.Get("/health", deps.HealthHandler.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	r.Get("/listings", listingHandler.List)
	r.Get("/listings/{id}", listingHandler.Get)
	r.Get("/requests", requestHandler.ListActive)
	r.Get("/hosts/{hostId}", hostHandler.GetProfile)
	r.Get("/hosts/{hostId}/recommendations", hostHandler.ListRecommendations)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.Verifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/me", meHandler.Me)
		r.Post("/listings", listingHandler.Create)
		r.Get("/requests/mine", requestHandler.ListMine)
		r.Post("/requests", requestHandler.Create)

		// POST /hosts/:hostId/recommendations - 推薦作成（専用レート制限を追加）
		r.With(deps.RateLimiter.RecommendationMiddleware()).
			Post("/hosts/{hostId}/recommendations", hostHandler.Recommend)
	})

	return r
}
