package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLayoutStart(ctx, "overlap", 10)
	p.OnLayoutComplete(ctx, "overlap", 3, time.Second, nil)
	p.OnCheck(ctx, 10, 2, time.Millisecond)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopStoreHooks{}
	s.OnRunSaved(ctx, "cli", nil)
	s.OnRunLoaded(ctx, "abc", nil)

	NoopServerHooks{}.OnRequest(ctx, "POST", "/v1/layout", 200, time.Millisecond)
}

type recordingHooks struct {
	NoopPipelineHooks
	mu        sync.Mutex
	completed []string
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, alg string, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed = append(h.completed, alg)
}

type countingCache struct {
	NoopCacheHooks
	hits int
}

func (c *countingCache) OnCacheHit(context.Context, string) { c.hits++ }

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	rec := &recordingHooks{}
	SetPipelineHooks(rec)
	cc := &countingCache{}
	SetCacheHooks(cc)

	Pipeline().OnLayoutComplete(context.Background(), "compact", 1, 0, nil)
	Cache().OnCacheHit(context.Background(), "layout")

	if len(rec.completed) != 1 || rec.completed[0] != "compact" {
		t.Errorf("completed = %v, want [compact]", rec.completed)
	}
	if cc.hits != 1 {
		t.Errorf("hits = %d, want 1", cc.hits)
	}

	SetPipelineHooks(nil)
	if Pipeline() != PipelineHooks(rec) {
		t.Error("SetPipelineHooks(nil) should keep the registered hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset should restore NoopPipelineHooks")
	}
}
