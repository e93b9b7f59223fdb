package store

import (
	"context"
	"testing"
	"time"
)

func TestNewDBRejectsMalformedURL(t *testing.T) {
	db, err := NewDB(context.Background(), "://not-a-dsn")
	if err == nil {
		t.Fatalf("expected error for malformed connection string")
	}
	// Callers only get a nil handle when the pool could not be opened.
	if db != nil {
		t.Errorf("expected nil handle for malformed connection string")
		_ = db.Close()
	}
}

func TestNewRedisReportsUnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r, err := NewRedis(ctx, "127.0.0.1:1")
	if err == nil {
		t.Fatalf("expected error for unreachable redis")
	}
	// A failed ping still returns a usable handle for degraded start-up.
	if r == nil || r.Client == nil {
		t.Fatalf("expected a usable handle when the ping fails")
	}
	if r.Healthy(ctx) {
		t.Errorf("unreachable redis reported healthy")
	}
	if err := r.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestNilHandlesAreSafe(t *testing.T) {
	var db *DB
	if err := db.Close(); err != nil {
		t.Errorf("nil db close: %v", err)
	}
	var r *Redis
	if r.Healthy(context.Background()) {
		t.Errorf("nil redis reported healthy")
	}
	if err := r.Close(); err != nil {
		t.Errorf("nil redis close: %v", err)
	}
}
