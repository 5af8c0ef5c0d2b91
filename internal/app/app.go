// Package app はアプリケーションの起動と依存関係のワイヤリングを提供する。
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/orirot10/shortstay-api/internal/alert"
	"github.com/orirot10/shortstay-api/internal/auth"
	"github.com/orirot10/shortstay-api/internal/config"
	"github.com/orirot10/shortstay-api/internal/database"
	"github.com/orirot10/shortstay-api/internal/handler"
	"github.com/orirot10/shortstay-api/internal/host"
	"github.com/orirot10/shortstay-api/internal/listing"
	"github.com/orirot10/shortstay-api/internal/logger"
	"github.com/orirot10/shortstay-api/internal/metrics"
	"github.com/orirot10/shortstay-api/internal/middleware"
	"github.com/orirot10/shortstay-api/internal/profile"
	"github.com/orirot10/shortstay-api/internal/reputation"
	"github.com/orirot10/shortstay-api/internal/repository"
	"github.com/orirot10/shortstay-api/internal/request"
	"github.com/orirot10/shortstay-api/internal/security"
)

// alertWebhookTimeout はアラートWebhook送信のタイムアウト。
const alertWebhookTimeout = 5 * time.Second

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. セキュリティサービスとアラート通知の初期化
	// DB接続失敗も通知対象のため、通知はDB接続より先に構築する
	sanitizer := security.NewTextSanitizer()
	webhookGuard := security.NewWebhookGuard()

	var notifier alert.Notifier = alert.NewNoopNotifier()
	if cfg.AlertWebhookURL != "" {
		n, err := alert.NewWebhookNotifier(cfg.AlertWebhookURL, webhookGuard, alertWebhookTimeout)
		if err != nil {
			return fmt.Errorf("failed to configure alert webhook: %w", err)
		}
		notifier = n
	}

	// 2. DB接続
	db, err := connectDatabase(context.Background(), cfg.DatabaseURL, notifier)
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("database connection established")

	// 3. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	listingRepo := repository.NewPostgresListingRepo(db)
	requestRepo := repository.NewPostgresRequestRepo(db)
	recRepo := repository.NewPostgresRecommendationRepo(db)

	// 4. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. ドメインサービスの初期化
	verifier := auth.NewTokeninfoVerifier(auth.TokeninfoConfig{
		TokeninfoURL: cfg.IdPTokeninfoURL,
		Audience:     cfg.IdPAudience,
		Timeout:      cfg.IdPVerifyTimeout,
	})

	aggregator := reputation.NewService(recRepo, userRepo, collector)
	listingService := listing.NewService(listingRepo, sanitizer, collector)
	requestService := request.NewService(requestRepo, sanitizer)
	hostService := host.NewService(userRepo, recRepo, aggregator, sanitizer, collector)
	profileService := profile.NewService(userRepo)

	// 6. レート制限の初期化
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralPerMin = cfg.RateLimitGeneral
	rateLimiterCfg.RecCreatePerMin = cfg.RateLimitRecCreate
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 7. ルーターの構築
	router := handler.NewRouter(&handler.RouterDeps{
		Verifier:          verifier,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),

		Collector: collector,
		Gatherer:  registry,

		ListingService: listingService,
		RequestService: requestService,
		HostService:    hostService,
		ProfileService: profileService,

		HealthHandler: handler.NewHealthHandler(db, notifier),
	})

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// connectDatabase はDB接続プールを開き、疎通を確認する。
// 疎通に失敗した場合はアラートWebhookに通知してからエラーを返す。
func connectDatabase(ctx context.Context, databaseURL string, notifier alert.Notifier) (*sql.DB, error) {
	db, err := database.Open(databaseURL)
	if err != nil {
		// 通知の失敗は起動エラーに重ねない
		_ = notifier.Notify(ctx, "db_connect_failed", "failed to open database: "+err.Error())
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		_ = notifier.Notify(ctx, "db_connect_failed", "database ping failed: "+err.Error())
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
