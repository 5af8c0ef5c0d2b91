// Package auth は外部IdPに委譲したBearerトークン検証を提供する。
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Identity は検証済みトークンから得られたユーザー情報を表す。
// SubjectはIdPが発行する安定したユーザー識別子で、User.IDとして使用される。
type Identity struct {
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

// Verifier はBearerトークンの検証インターフェース。
type Verifier interface {
	// Verify はトークンをIdPに対して検証し、ユーザー情報を返す。
	// 無効・期限切れ・audience不一致のトークンにはエラーを返す。
	Verify(ctx context.Context, token string) (*Identity, error)
}

// TokeninfoConfig はtokeninfoエンドポイント検証の設定。
type TokeninfoConfig struct {
	// TokeninfoURL はIdPのトークン検証エンドポイント。
	TokeninfoURL string
	// Audience が空でない場合、トークンのaudクレームとの一致を検証する。
	Audience string
	// Timeout は検証リクエストのHTTPタイムアウト。
	Timeout time.Duration
}

// TokeninfoVerifier はIdPのtokeninfoエンドポイントを呼び出してトークンを検証する。
// 署名検証はIdP側に完全に委譲され、このプロセスは鍵を保持しない。
type TokeninfoVerifier struct {
	config TokeninfoConfig
	client *http.Client
}

// NewTokeninfoVerifier はTokeninfoVerifierを生成する。
func NewTokeninfoVerifier(config TokeninfoConfig) *TokeninfoVerifier {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	return &TokeninfoVerifier{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// tokeninfoResponse はtokeninfoエンドポイントのレスポンス。
// expは10進秒文字列で返される。
type tokeninfoResponse struct {
	Sub     string `json:"sub"`
	Aud     string `json:"aud"`
	Exp     string `json:"exp"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Verify はトークンをtokeninfoエンドポイントに問い合わせて検証する。
func (v *TokeninfoVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	endpoint := v.config.TokeninfoURL + "?id_token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokeninfo request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokeninfo response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token verification failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info tokeninfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse tokeninfo response: %w", err)
	}

	if info.Sub == "" {
		return nil, fmt.Errorf("empty sub in tokeninfo response")
	}

	if v.config.Audience != "" && info.Aud != v.config.Audience {
		return nil, fmt.Errorf("audience mismatch: got %q", info.Aud)
	}

	if info.Exp != "" {
		exp, err := strconv.ParseInt(info.Exp, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid exp in tokeninfo response: %w", err)
		}
		if time.Now().Unix() >= exp {
			return nil, fmt.Errorf("token expired")
		}
	}

	return &Identity{
		Subject:   info.Sub,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}, nil
}

// compile-time interface check
var _ Verifier = (*TokeninfoVerifier)(nil)
