package offerskit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validToken(value string) *AccessToken {
	return &AccessToken{
		Token:     value,
		ExpiresAt: float64(time.Now().Add(4*time.Minute).UnixNano()) / float64(time.Second),
	}
}

func expiredToken(value string) *AccessToken {
	return &AccessToken{
		Token:     value,
		ExpiresAt: float64(time.Now().Add(-time.Minute).UnixNano()) / float64(time.Second),
	}
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token_cache.json")
	store := NewFileTokenStore(path)
	ctx := context.Background()

	if err := store.Save(ctx, validToken("token-1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil || loaded.Token != "token-1" {
		t.Errorf("loaded = %v, want token-1", loaded)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
}

func TestFileTokenStoreMissingFileIsMiss(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "absent.json"))

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded != nil {
		t.Errorf("loaded = %v, want nil", loaded)
	}
}

func TestFileTokenStoreMalformedFileIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token_cache.json")
	if err := os.WriteFile(path, []byte("{truncated"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	store := NewFileTokenStore(path)
	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded != nil {
		t.Errorf("loaded = %v, want nil for malformed content", loaded)
	}
}

func TestFileTokenStoreExpiredTokenIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token_cache.json")
	store := NewFileTokenStore(path)
	ctx := context.Background()

	if err := store.Save(ctx, expiredToken("stale")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded != nil {
		t.Errorf("loaded = %v, want nil for expired token", loaded)
	}
}

func TestFileTokenStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token_cache.json")
	store := NewFileTokenStore(path)
	ctx := context.Background()

	// Clearing an empty store is fine.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() on empty store error = %v", err)
	}

	if err := store.Save(ctx, validToken("token-1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists after Clear")
	}
}

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()
	ctx := context.Background()

	if loaded, err := store.Load(ctx); err != nil || loaded != nil {
		t.Fatalf("empty Load() = %v, %v", loaded, err)
	}

	token := validToken("token-1")
	if err := store.Save(ctx, token); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil || loaded.Token != "token-1" {
		t.Fatalf("loaded = %v", loaded)
	}

	// The store hands out copies; mutating one must not corrupt the other.
	loaded.Token = "mutated"
	again, _ := store.Load(ctx)
	if again.Token != "token-1" {
		t.Error("Load() returned a shared pointer")
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if loaded, _ := store.Load(ctx); loaded != nil {
		t.Errorf("loaded = %v after Clear", loaded)
	}
}
