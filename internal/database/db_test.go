package database

import "testing"

// TestOpen_InvalidURL は不正なURLでもsql.Openの遅延接続によりエラーにならないことを検証する。
// 実際の接続エラーはPing時に検出される。
func TestOpen_InvalidURL(t *testing.T) {
	db, err := Open("postgres://invalid-host:5432/nonexistent?sslmode=disable")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer db.Close()

	if db == nil {
		t.Fatal("expected non-nil db handle")
	}
}

// TestOpen_PoolLimits は接続プールの上限が設定されることを検証する。
func TestOpen_PoolLimits(t *testing.T) {
	db, err := Open("postgres://localhost:5432/shortstay?sslmode=disable")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer db.Close()

	stats := db.Stats()
	if stats.MaxOpenConnections != maxOpenConns {
		t.Errorf("MaxOpenConnections = %d, want %d", stats.MaxOpenConnections, maxOpenConns)
	}
}
