package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type solverOnly struct{ NoopSolverHooks }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Solver().(NoopSolverHooks); !ok {
		t.Errorf("Solver() = %T", Solver())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T", HTTP())
	}
}

func TestSetHooks(t *testing.T) {
	defer Reset()

	h := &solverOnly{}
	SetSolverHooks(h)
	SetSolverHooks(nil)
	if Solver() != h {
		t.Error("nil should not replace installed hooks")
	}

	Reset()
	if Solver() == h {
		t.Error("Reset should drop installed hooks")
	}
}

func TestInstall(t *testing.T) {
	defer Reset()

	if Install(struct{}{}) {
		t.Error("Install of a non-hook should report false")
	}

	if !Install(&solverOnly{}) {
		t.Fatal("Install should accept solver hooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("solver-only Install should leave cache hooks alone")
	}

	c := NewCounters()
	Install(c)
	if Solver() != c || Cache() != c || HTTP() != c {
		t.Error("Counters should be installed for every hook set")
	}
}

func TestCounters(t *testing.T) {
	ctx := context.Background()
	c := NewCounters()

	c.OnSolveStart(ctx, 8, 4)
	c.OnSolution(ctx, 1)
	c.OnSolution(ctx, 2)
	c.OnSolveComplete(ctx, 2, 30, time.Second, nil)
	c.OnSolveStart(ctx, 8, 4)
	c.OnSolveComplete(ctx, 0, 5, time.Second, errors.New("timeout"))

	c.OnCacheMiss(ctx, "solve")
	c.OnCacheSet(ctx, "solve", 100)
	c.OnCacheHit(ctx, "solve")

	c.OnRequest(ctx, "POST", "/solve")
	c.OnResponse(ctx, "POST", "/solve", 200, time.Millisecond)
	c.OnRequest(ctx, "POST", "/solve")
	c.OnResponse(ctx, "POST", "/solve", 500, time.Millisecond)

	want := Snapshot{
		Searches:       2,
		FailedSearches: 1,
		Solutions:      2,
		Placements:     35,
		SearchTime:     2 * time.Second,
		CacheHits:      1,
		CacheMisses:    1,
		CacheBytes:     100,
		Requests:       2,
		ServerErrors:   1,
	}
	if got := c.Snapshot(); got != want {
		t.Errorf("Snapshot() = %+v\nwant %+v", got, want)
	}
}

func TestCountersConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewCounters()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				c.OnSolution(ctx, i+1)
			}
		}()
	}
	wg.Wait()

	if got := c.Snapshot().Solutions; got != 800 {
		t.Errorf("Solutions = %d, want 800", got)
	}
}
