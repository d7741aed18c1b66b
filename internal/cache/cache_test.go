package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	if Key("projects", "") != "projects" {
		t.Error("bare type key")
	}
	if Key("projects", "w1") != "projects/w1" {
		t.Error("scoped key")
	}
}

func TestGetOrLoad_CachesWithinTTL(t *testing.T) {
	c := New()
	calls := 0
	load := func() (any, error) {
		calls++
		return "v", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("projects", time.Minute, load)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if v != "v" {
			t.Fatalf("value = %v", v)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 underlying load, got %d", calls)
	}
}

func TestGetOrLoad_ExpiresAfterTTL(t *testing.T) {
	c := New()
	now := time.Now()
	c.now = func() time.Time { return now }

	calls := 0
	load := func() (any, error) { calls++; return calls, nil }

	if _, err := c.GetOrLoad("sandboxes", time.Minute, load); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	v, err := c.GetOrLoad("sandboxes", time.Minute, load)
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 {
		t.Errorf("expected reload after expiry, got %v", v)
	}
}

func TestGetOrLoad_ConcurrentDedup(t *testing.T) {
	c := New()
	var calls int32
	release := make(chan struct{})
	load := func() (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _ := c.GetOrLoad("projects/w1", time.Minute, load)
			results[i] = v
		}(i)
	}

	// Give the goroutines time to pile into the singleflight group.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected exactly 1 underlying call, got %d", got)
	}
	for i, v := range results {
		if v != "shared" {
			t.Errorf("caller %d got %v", i, v)
		}
	}
}

func TestGetOrLoad_ErrorNotCached(t *testing.T) {
	c := New()
	calls := 0
	load := func() (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return "ok", nil
	}

	if _, err := c.GetOrLoad("workflows", time.Minute, load); err == nil {
		t.Fatal("expected error")
	}
	v, err := c.GetOrLoad("workflows", time.Minute, load)
	if err != nil || v != "ok" {
		t.Errorf("expected retry to succeed, got %v %v", v, err)
	}
}

func TestInvalidate_BypassesFreshEntry(t *testing.T) {
	c := New()
	calls := 0
	load := func() (any, error) { calls++; return calls, nil }

	if _, err := c.GetOrLoad("projects/w1", time.Hour, load); err != nil {
		t.Fatal(err)
	}
	c.Invalidate("projects/w1")

	v, err := c.GetOrLoad("projects/w1", time.Hour, load)
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 {
		t.Errorf("expected reload after invalidate, got %v", v)
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c := New()
	loadN := func(n int) func() (any, error) {
		return func() (any, error) { return n, nil }
	}
	c.GetOrLoad("projects", time.Hour, loadN(1))
	c.GetOrLoad("projects/w1", time.Hour, loadN(2))
	c.GetOrLoad("projects/w2", time.Hour, loadN(3))
	c.GetOrLoad("workspaces/o1", time.Hour, loadN(4))

	c.InvalidatePrefix("projects")

	if _, ok := c.Peek("projects"); ok {
		t.Error("bare type key should be invalidated")
	}
	if _, ok := c.Peek("projects/w1"); ok {
		t.Error("scoped key should be invalidated")
	}
	if _, ok := c.Peek("workspaces/o1"); !ok {
		t.Error("other types must survive")
	}
}

func TestClear(t *testing.T) {
	c := New()
	c.GetOrLoad("organizations", time.Hour, func() (any, error) { return 1, nil })
	c.Clear()
	if _, ok := c.Peek("organizations"); ok {
		t.Error("expected empty cache after Clear")
	}
}
