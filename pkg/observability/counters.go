package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters tallies events in memory. It implements every hook interface and
// is safe for concurrent use.
type Counters struct {
	searches   atomic.Int64
	failed     atomic.Int64
	solutions  atomic.Int64
	placements atomic.Int64
	searchNs   atomic.Int64

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	cacheBytes  atomic.Int64

	requests     atomic.Int64
	serverErrors atomic.Int64
}

func NewCounters() *Counters { return &Counters{} }

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Searches       int64         `json:"searches"`
	FailedSearches int64         `json:"failed_searches"`
	Solutions      int64         `json:"solutions"`
	Placements     int64         `json:"placements"`
	SearchTime     time.Duration `json:"search_time_ns"`
	CacheHits      int64         `json:"cache_hits"`
	CacheMisses    int64         `json:"cache_misses"`
	CacheBytes     int64         `json:"cache_bytes_written"`
	Requests       int64         `json:"requests"`
	ServerErrors   int64         `json:"server_errors"`
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Searches:       c.searches.Load(),
		FailedSearches: c.failed.Load(),
		Solutions:      c.solutions.Load(),
		Placements:     c.placements.Load(),
		SearchTime:     time.Duration(c.searchNs.Load()),
		CacheHits:      c.cacheHits.Load(),
		CacheMisses:    c.cacheMisses.Load(),
		CacheBytes:     c.cacheBytes.Load(),
		Requests:       c.requests.Load(),
		ServerErrors:   c.serverErrors.Load(),
	}
}

func (c *Counters) OnSolveStart(context.Context, int, int) { c.searches.Add(1) }

func (c *Counters) OnSolution(context.Context, int) { c.solutions.Add(1) }

func (c *Counters) OnSolveComplete(_ context.Context, _ int, placements int64, d time.Duration, err error) {
	c.placements.Add(placements)
	c.searchNs.Add(int64(d))
	if err != nil {
		c.failed.Add(1)
	}
}

func (c *Counters) OnCacheHit(context.Context, string)  { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.cacheMisses.Add(1) }

func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.cacheBytes.Add(int64(size))
}

func (c *Counters) OnRequest(context.Context, string, string) { c.requests.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status >= 500 {
		c.serverErrors.Add(1)
	}
}

var (
	_ SolverHooks = (*Counters)(nil)
	_ CacheHooks  = (*Counters)(nil)
	_ HTTPHooks   = (*Counters)(nil)
)
