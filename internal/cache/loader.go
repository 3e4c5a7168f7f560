package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"
	"github.com/Adda-Baaj/tour-sosik/internal/logger"
)

// DefaultTTL is how long a fetched snapshot is served before refetching.
const DefaultTTL = 30 * time.Minute

// Snapshot is one cached fetch result.
type Snapshot struct {
	Items     []domain.NewsItem `json:"items"`
	FetchedAt time.Time         `json:"fetched_at"`
	Cached    bool              `json:"-"`
}

// FetchFunc produces a fresh item list.
type FetchFunc func(ctx context.Context) []domain.NewsItem

// Loader serves the fetch result from a Store, refetching once it expires.
// Concurrent misses share a single fetch.
type Loader struct {
	store Store
	key   string
	ttl   time.Duration
	fetch FetchFunc
	log   logger.Logger
	now   func() time.Time
	mu    sync.Mutex
}

// NewLoader creates a Loader caching fetch under key.
func NewLoader(store Store, key string, ttl time.Duration, fetch FetchFunc, log logger.Logger) *Loader {
	if store == nil {
		store = NewMemoryStore()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Loader{store: store, key: key, ttl: ttl, fetch: fetch, log: log, now: time.Now}
}

// Load returns the cached snapshot, fetching a new one on a miss. A fetch
// whose ctx ends before it returns is handed back but not cached.
func (l *Loader) Load(ctx context.Context) Snapshot {
	if snap, ok := l.cached(ctx); ok {
		return snap
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if snap, ok := l.cached(ctx); ok {
		return snap
	}
	return l.refresh(ctx)
}

// Refresh fetches and stores a new snapshot regardless of the cache.
func (l *Loader) Refresh(ctx context.Context) Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refresh(ctx)
}

// Invalidate drops the cached snapshot; the next Load fetches.
func (l *Loader) Invalidate(ctx context.Context) error {
	return l.store.Delete(ctx, l.key)
}

func (l *Loader) cached(ctx context.Context) (Snapshot, bool) {
	raw, ok, err := l.store.Get(ctx, l.key)
	if err != nil {
		l.log.WarnObj("cache read failed", "cache_read_failed", map[string]any{
			"key":   l.key,
			"error": err.Error(),
		})
		return Snapshot{}, false
	}
	if !ok {
		return Snapshot{}, false
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		l.log.WarnObj("cache entry corrupt", "cache_decode_failed", map[string]any{
			"key":   l.key,
			"error": err.Error(),
		})
		return Snapshot{}, false
	}
	snap.Cached = true
	return snap, true
}

func (l *Loader) refresh(ctx context.Context) Snapshot {
	items := l.fetch(ctx)
	if items == nil {
		items = []domain.NewsItem{}
	}
	snap := Snapshot{Items: items, FetchedAt: l.now()}

	// an interrupted harvest stopped after some sites; keep it out of the store
	if err := ctx.Err(); err != nil {
		l.log.WarnObj("harvest interrupted, snapshot not cached", "cache_write_skipped", map[string]any{
			"key":   l.key,
			"items": len(items),
			"error": err.Error(),
		})
		return snap
	}

	raw, err := json.Marshal(snap)
	if err == nil {
		err = l.store.Set(ctx, l.key, raw, l.ttl)
	}
	if err != nil {
		l.log.WarnObj("cache write failed", "cache_write_failed", map[string]any{
			"key":   l.key,
			"error": err.Error(),
		})
	}

	l.log.InfoObj("snapshot refreshed", "cache_refreshed", map[string]any{
		"key":   l.key,
		"items": len(items),
	})
	return snap
}
