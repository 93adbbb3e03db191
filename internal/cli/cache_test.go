package cli

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/matzehuels/spore/pkg/cache"
)

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"layout:a", "layout:b", "artifact:c"} {
		if err := fc.Set(ctx, key, []byte("x"), time.Hour); err != nil {
			t.Fatalf("Set(%q) error: %v", key, err)
		}
	}

	c := New(io.Discard, LogInfo)
	c.Config.Cache = cache.Options{Backend: cache.BackendFile, Dir: dir}
	root := c.RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}

	if _, ok, _ := fc.Get(ctx, "layout:a"); ok {
		t.Error("entry still cached after clear")
	}
}

func TestNewCacheDisabled(t *testing.T) {
	c := New(io.Discard, LogInfo)
	ch, err := c.newCache(context.Background(), true)
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	if _, ok := ch.(cache.NullCache); !ok {
		t.Errorf("newCache(noCache) = %T, want cache.NullCache", ch)
	}
}
