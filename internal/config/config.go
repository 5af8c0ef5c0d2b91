// Package config は環境変数ベースのアプリケーション設定を提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// defaultTokeninfoURL はIdPのトークン検証エンドポイントのデフォルト値。
const defaultTokeninfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Identity Provider
	IdPTokeninfoURL  string
	IdPAudience      string // 空の場合はaud検証をスキップ
	IdPVerifyTimeout time.Duration

	// Rate Limit（req/min/user）
	RateLimitGeneral   int
	RateLimitRecCreate int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string

	// Alert
	AlertWebhookURL string // 空の場合はアラート通知を行わない
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.IdPTokeninfoURL = getEnvString("IDP_TOKENINFO_URL", defaultTokeninfoURL)
	cfg.IdPAudience = getEnvString("IDP_AUDIENCE", "")
	cfg.IdPVerifyTimeout = getEnvDuration("IDP_VERIFY_TIMEOUT", 5*time.Second)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitRecCreate = getEnvInt("RATE_LIMIT_REC_CREATE", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "*")
	cfg.AlertWebhookURL = getEnvString("ALERT_WEBHOOK_URL", "")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
