package cache

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Errorf("Get = (%v, %v), want (nil, false)", data, hit)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, err := c.Get(ctx, "layout:a"); hit || err != nil {
		t.Fatalf("Get on empty cache = (%v, %v), want miss", hit, err)
	}

	if err := c.Set(ctx, "layout:a", []byte(`{"x":1}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:a")
	if err != nil || !hit {
		t.Fatalf("Get = (%v, %v), want hit", hit, err)
	}
	if string(data) != `{"x":1}` {
		t.Errorf("Get data = %s, want {\"x\":1}", data)
	}

	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:a"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Errorf("expired entry file should be removed, stat err = %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get of corrupt entry = (%v, %v), want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear = %d, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after Clear, want 0", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := LayoutKeyOpts{Algorithm: "overlap", Spacing: 20, Seed: 42}
	tests := []struct {
		name string
		opts LayoutKeyOpts
	}{
		{"algorithm", LayoutKeyOpts{Algorithm: "compact", Spacing: 20, Seed: 42}},
		{"spacing", LayoutKeyOpts{Algorithm: "overlap", Spacing: 10, Seed: 42}},
		{"seed", LayoutKeyOpts{Algorithm: "overlap", Spacing: 20, Seed: 7}},
		{"mode", LayoutKeyOpts{Algorithm: "overlap", Spacing: 20, Seed: 42, Mode: "ORTHOGONAL"}},
		{"assert_connected", LayoutKeyOpts{Algorithm: "overlap", Spacing: 20, Seed: 42, AssertConnected: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if k.LayoutKey("h", base) == k.LayoutKey("h", tt.opts) {
				t.Errorf("LayoutKey should change with %s", tt.name)
			}
		})
	}

	if got := k.LayoutKey("h", base); !strings.HasPrefix(got, "layout:") {
		t.Errorf("LayoutKey = %q, want layout: prefix", got)
	}
	if k.LayoutKey("h1", base) == k.LayoutKey("h2", base) {
		t.Error("LayoutKey should change with the diagram hash")
	}

	ak1 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Scale: 1})
	ak2 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "png", Scale: 1})
	if ak1 == ak2 {
		t.Error("different ArtifactKeyOpts should produce different keys")
	}
	if k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Scale: 1}) == k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Scale: 1, ShowContainer: true}) {
		t.Error("ArtifactKey should depend on the container flag")
	}
	if k.CheckKey("h", 20, true) == k.CheckKey("h", 20, false) {
		t.Error("CheckKey should depend on the naive flag")
	}
	if k.CheckKey("h", 20, false) == k.CheckKey("h", 0, false) {
		t.Error("CheckKey should depend on the spacing")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "api:")
	inner := NewDefaultKeyer()

	opts := LayoutKeyOpts{Algorithm: "overlap"}
	if got, want := scoped.LayoutKey("h", opts), "api:"+inner.LayoutKey("h", opts); got != want {
		t.Errorf("LayoutKey = %q, want %q", got, want)
	}
	if got := scoped.CheckKey("h", 20, false); !strings.HasPrefix(got, "api:check:") {
		t.Errorf("CheckKey = %q, want api:check: prefix", got)
	}

	nilInner := NewScopedKeyer(nil, "p:")
	if got := nilInner.ArtifactKey("h", ArtifactKeyOpts{}); !strings.HasPrefix(got, "p:artifact:") {
		t.Errorf("ArtifactKey with nil inner = %q", got)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"empty", Options{}, false},
		{"none", Options{Backend: BackendNone}, false},
		{"file", Options{Backend: BackendFile, Dir: t.TempDir()}, false},
		{"file without dir", Options{Backend: BackendFile}, true},
		{"redis without url", Options{Backend: BackendRedis}, true},
		{"redis bad url", Options{Backend: BackendRedis, RedisURL: "ftp://nowhere"}, true},
		{"unknown", Options{Backend: "memcached"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Open(ctx, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if c != nil {
				c.Close()
			}
		})
	}

	if _, err := Open(ctx, Options{Backend: "memcached"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(unknown) = %v, want ErrUnknownBackend", err)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), ErrUnavailable.Error())
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should unwrap to ErrUnavailable")
	}
	if IsRetryable(ErrUnknownBackend) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	ctx := context.Background()

	calls := 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err = %v, calls = %d, want nil, 1", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, func() error { calls++; return ErrUnknownBackend })
	if err != ErrUnknownBackend || calls != 1 {
		t.Errorf("permanent: err = %v, calls = %d, want ErrUnknownBackend, 1", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("transient: err = %v, calls = %d, want nil, 2", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrUnavailable) })
	if !errors.Is(err, ErrUnavailable) || calls != 3 {
		t.Errorf("exhausted: err = %v, calls = %d, want ErrUnavailable, 3", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("RetryWithBackoff = %v, want context.Canceled", err)
	}
}
