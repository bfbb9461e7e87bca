package blacklist

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	authModel "edumanager_backend/internals/features/users/auth/model"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(&authModel.TokenBlacklistModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGormStore(db)
}

func TestFingerprint(t *testing.T) {
	a, b := Fingerprint("token-a"), Fingerprint("token-b")
	if len(a) != 64 || a == b {
		t.Fatalf("fingerprints %q %q", a, b)
	}
	if a != Fingerprint("token-a") {
		t.Fatal("fingerprint not deterministic")
	}
}

func TestGormStore(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)

	if err := s.Add(ctx, "live", time.Hour); err != nil {
		t.Fatalf("add: %v", err)
	}
	// logout dua kali tidak boleh error
	if err := s.Add(ctx, "live", time.Hour); err != nil {
		t.Fatalf("add twice: %v", err)
	}
	if err := s.Add(ctx, "stale", -time.Minute); err != nil {
		t.Fatalf("add stale: %v", err)
	}

	check := Checker(s)
	if black, err := check(ctx, "live"); err != nil || !black {
		t.Fatalf("live: black=%v err=%v", black, err)
	}
	if black, err := check(ctx, "stale"); err != nil || black {
		t.Fatalf("stale: black=%v err=%v", black, err)
	}
	if black, err := check(ctx, "unknown"); err != nil || black {
		t.Fatalf("unknown: black=%v err=%v", black, err)
	}

	n, err := s.Purge(ctx)
	if err != nil || n != 1 {
		t.Fatalf("purge = %d, %v; want 1", n, err)
	}
	if black, _ := check(ctx, "live"); !black {
		t.Fatal("purge removed a live entry")
	}
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := NewRedisStore(client)

	if err := s.Add(ctx, "live", 10*time.Minute); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(ctx, "live", 10*time.Minute); err != nil {
		t.Fatalf("add twice: %v", err)
	}
	// token yang sudah expired tidak perlu disimpan
	if err := s.Add(ctx, "expired", 0); err != nil {
		t.Fatalf("add expired: %v", err)
	}

	key := defaultRedisPrefix + Fingerprint("live")
	if !mr.Exists(key) {
		t.Fatalf("key %s missing, keys = %v", key, mr.Keys())
	}
	if ttl := mr.TTL(key); ttl != 10*time.Minute {
		t.Fatalf("ttl = %s, want 10m", ttl)
	}
	if len(mr.Keys()) != 1 {
		t.Fatalf("keys = %v, want only the live token", mr.Keys())
	}

	check := Checker(s)
	if black, err := check(ctx, "live"); err != nil || !black {
		t.Fatalf("live: black=%v err=%v", black, err)
	}
	if black, err := check(ctx, "expired"); err != nil || black {
		t.Fatalf("expired: black=%v err=%v", black, err)
	}

	mr.FastForward(11 * time.Minute)
	if black, err := check(ctx, "live"); err != nil || black {
		t.Fatalf("after ttl: black=%v err=%v", black, err)
	}
	if n, err := s.Purge(ctx); err != nil || n != 0 {
		t.Fatalf("purge = %d, %v", n, err)
	}

	mr.Close()
	if _, err := check(ctx, "live"); err == nil {
		t.Fatal("want error when redis is down")
	}
}
