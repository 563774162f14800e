// Package observability carries search, cache and HTTP events to whatever
// instrumentation the binary installs.
//
// Libraries report through the accessors:
//
//	observability.Solver().OnSolution(ctx, index)
//	observability.Cache().OnCacheHit(ctx, "solve")
//
// Main installs implementations once at startup. Until then every event goes
// to a no-op. [Counters] is a ready-made in-memory implementation:
//
//	stats := observability.NewCounters()
//	observability.Install(stats)
//	defer observability.Reset()
package observability

import (
	"context"
	"sync"
	"time"
)

// SolverHooks receives events from the search engine.
type SolverHooks interface {
	// OnSolveStart is called once before the search begins.
	OnSolveStart(ctx context.Context, sites, pieces int)

	// OnSolution is called for every complete tiling, with its 1-based index.
	OnSolution(ctx context.Context, index int)

	// OnSolveComplete is called once when the search returns.
	OnSolveComplete(ctx context.Context, solutions int, placements int64, duration time.Duration, err error)
}

// CacheHooks receives events from the result cache. keyType names the kind of
// entry, e.g. "solve".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives one OnRequest and one OnResponse per API request.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

type NoopSolverHooks struct{}

func (NoopSolverHooks) OnSolveStart(context.Context, int, int)                             {}
func (NoopSolverHooks) OnSolution(context.Context, int)                                    {}
func (NoopSolverHooks) OnSolveComplete(context.Context, int, int64, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds one installed hook set. A nil set is never stored.
type slot[T any] struct {
	mu   sync.RWMutex
	cur  T
	noop T
}

func newSlot[T any](noop T) *slot[T] {
	return &slot[T]{cur: noop, noop: noop}
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *slot[T]) set(h T, ok bool) {
	if !ok {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.noop
	s.mu.Unlock()
}

var (
	solverSlot = newSlot[SolverHooks](NoopSolverHooks{})
	cacheSlot  = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot   = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetSolverHooks installs h. A nil h is ignored.
func SetSolverHooks(h SolverHooks) { solverSlot.set(h, h != nil) }

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h, h != nil) }

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h, h != nil) }

// Install registers h for every hook interface it implements and reports
// whether it implemented any.
func Install(h any) bool {
	s, okS := h.(SolverHooks)
	c, okC := h.(CacheHooks)
	w, okW := h.(HTTPHooks)
	solverSlot.set(s, okS)
	cacheSlot.set(c, okC)
	httpSlot.set(w, okW)
	return okS || okC || okW
}

func Solver() SolverHooks { return solverSlot.get() }
func Cache() CacheHooks   { return cacheSlot.get() }
func HTTP() HTTPHooks     { return httpSlot.get() }

// Reset restores the no-op hooks.
func Reset() {
	solverSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
