package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

// newTokeninfoServer はtokeninfoエンドポイントを模したテストサーバーを返す。
func newTokeninfoServer(t *testing.T, status int, body map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_token") == "" {
			t.Error("id_token query parameter is missing")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
}

func futureExp() string {
	return strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
}

// TestTokeninfoVerifier_Verify_Success は有効なトークンからIdentityが得られることを検証する。
func TestTokeninfoVerifier_Verify_Success(t *testing.T) {
	srv := newTokeninfoServer(t, http.StatusOK, map[string]string{
		"sub":     "user-abc",
		"aud":     "shortstay-prod",
		"exp":     futureExp(),
		"email":   "guest@example.com",
		"name":    "Guest User",
		"picture": "https://example.com/avatar.png",
	})
	defer srv.Close()

	v := NewTokeninfoVerifier(TokeninfoConfig{
		TokeninfoURL: srv.URL,
		Audience:     "shortstay-prod",
	})

	ident, err := v.Verify(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if ident.Subject != "user-abc" {
		t.Errorf("Subject = %q, want %q", ident.Subject, "user-abc")
	}
	if ident.Email != "guest@example.com" {
		t.Errorf("Email = %q, want %q", ident.Email, "guest@example.com")
	}
	if ident.Name != "Guest User" {
		t.Errorf("Name = %q, want %q", ident.Name, "Guest User")
	}
	if ident.AvatarURL != "https://example.com/avatar.png" {
		t.Errorf("AvatarURL = %q", ident.AvatarURL)
	}
}

// TestTokeninfoVerifier_Verify_RejectedByIdP はIdPが拒否したトークンがエラーになることを検証する。
func TestTokeninfoVerifier_Verify_RejectedByIdP(t *testing.T) {
	srv := newTokeninfoServer(t, http.StatusBadRequest, map[string]string{
		"error": "invalid_token",
	})
	defer srv.Close()

	v := NewTokeninfoVerifier(TokeninfoConfig{TokeninfoURL: srv.URL})

	if _, err := v.Verify(context.Background(), "bad-token"); err == nil {
		t.Fatal("expected error for rejected token, got nil")
	}
}

// TestTokeninfoVerifier_Verify_AudienceMismatch はaud不一致がエラーになることを検証する。
func TestTokeninfoVerifier_Verify_AudienceMismatch(t *testing.T) {
	srv := newTokeninfoServer(t, http.StatusOK, map[string]string{
		"sub": "user-abc",
		"aud": "other-project",
		"exp": futureExp(),
	})
	defer srv.Close()

	v := NewTokeninfoVerifier(TokeninfoConfig{
		TokeninfoURL: srv.URL,
		Audience:     "shortstay-prod",
	})

	if _, err := v.Verify(context.Background(), "token"); err == nil {
		t.Fatal("expected error for audience mismatch, got nil")
	}
}

// TestTokeninfoVerifier_Verify_NoAudienceCheck はAudience未設定時にaud検証がスキップされることを検証する。
func TestTokeninfoVerifier_Verify_NoAudienceCheck(t *testing.T) {
	srv := newTokeninfoServer(t, http.StatusOK, map[string]string{
		"sub": "user-abc",
		"aud": "whatever",
		"exp": futureExp(),
	})
	defer srv.Close()

	v := NewTokeninfoVerifier(TokeninfoConfig{TokeninfoURL: srv.URL})

	if _, err := v.Verify(context.Background(), "token"); err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
}

// TestTokeninfoVerifier_Verify_ExpiredToken は期限切れトークンがエラーになることを検証する。
func TestTokeninfoVerifier_Verify_ExpiredToken(t *testing.T) {
	expired := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
	srv := newTokeninfoServer(t, http.StatusOK, map[string]string{
		"sub": "user-abc",
		"exp": expired,
	})
	defer srv.Close()

	v := NewTokeninfoVerifier(TokeninfoConfig{TokeninfoURL: srv.URL})

	if _, err := v.Verify(context.Background(), "token"); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

// TestTokeninfoVerifier_Verify_EmptySub はsubが欠けたレスポンスがエラーになることを検証する。
func TestTokeninfoVerifier_Verify_EmptySub(t *testing.T) {
	srv := newTokeninfoServer(t, http.StatusOK, map[string]string{
		"exp": futureExp(),
	})
	defer srv.Close()

	v := NewTokeninfoVerifier(TokeninfoConfig{TokeninfoURL: srv.URL})

	if _, err := v.Verify(context.Background(), "token"); err == nil {
		t.Fatal("expected error for empty sub, got nil")
	}
}

// TestTokeninfoVerifier_Verify_EmptyToken は空トークンがIdP呼び出しなしでエラーになることを検証する。
func TestTokeninfoVerifier_Verify_EmptyToken(t *testing.T) {
	v := NewTokeninfoVerifier(TokeninfoConfig{TokeninfoURL: "http://unused.example.com"})

	if _, err := v.Verify(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty token, got nil")
	}
}
