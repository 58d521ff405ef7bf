package cache

import (
	"context"
	"sync"
	"tiertagger/internal/domain"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type CrossFetchFunc func(ctx context.Context, src domain.Source, id uuid.UUID, name string) (*domain.PlayerRecord, error)

// CrossCache holds records from non-primary backends, keyed by (id, source).
// It is filled only when a display mode needs cross-backend fallback.
type CrossCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]map[domain.Source]entry
	pending map[string]uint64
	seq     uint64

	ttl    time.Duration
	clock  Clock
	pool   Submitter
	logger zerolog.Logger
}

func NewCrossCache(ttl time.Duration, clock Clock, pool Submitter, logger zerolog.Logger) *CrossCache {
	return &CrossCache{
		entries: make(map[uuid.UUID]map[domain.Source]entry),
		pending: make(map[string]uint64),
		ttl:     ttl,
		clock:   clock,
		pool:    pool,
		logger:  logger,
	}
}

func pendingKey(id uuid.UUID, src domain.Source) string {
	return id.String() + ":" + src.String()
}

func (c *CrossCache) Get(id uuid.UUID, src domain.Source) (*domain.PlayerRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id][src]
	if !ok || !e.fresh(c.clock.Now(), c.ttl) {
		return nil, false
	}
	return e.record, true
}

// All returns the fresh records for id by source.
func (c *CrossCache) All(id uuid.UUID) map[domain.Source]*domain.PlayerRecord {
	now := c.clock.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[domain.Source]*domain.PlayerRecord, len(c.entries[id]))
	for src, e := range c.entries[id] {
		if e.fresh(now, c.ttl) {
			out[src] = e.record
		}
	}
	return out
}

func (c *CrossCache) Pending(id uuid.UUID, src domain.Source) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.pending[pendingKey(id, src)]
	return ok
}

// FetchFromOthers submits a fetch for every source except exclude that has
// neither a pending fetch nor a fresh entry. Only non-empty results are
// stored. It returns the number of fetches submitted.
func (c *CrossCache) FetchFromOthers(id uuid.UUID, name string, exclude domain.Source, sources []domain.Source, fetch CrossFetchFunc, done func(domain.Source, *domain.PlayerRecord)) int {
	submitted := 0
	for _, src := range sources {
		if src == exclude {
			continue
		}
		key := pendingKey(id, src)

		c.mu.Lock()
		if _, ok := c.pending[key]; ok {
			c.mu.Unlock()
			continue
		}
		if e, ok := c.entries[id][src]; ok && e.fresh(c.clock.Now(), c.ttl) {
			c.mu.Unlock()
			continue
		}
		c.seq++
		token := c.seq
		c.pending[key] = token
		c.mu.Unlock()

		ok := c.pool.Submit("cross-fetch", func(ctx context.Context) {
			rec, err := fetch(ctx, src, id, name)
			if err != nil {
				c.logger.Debug().Err(err).Str("uuid", id.String()).Str("source", src.String()).Msg("cross fetch failed")
				rec = nil
			}
			stored := c.complete(id, src, key, token, rec)
			if done != nil {
				done(src, stored)
			}
		})
		if !ok {
			c.release(key, token)
			continue
		}
		submitted++
	}
	return submitted
}

func (c *CrossCache) complete(id uuid.UUID, src domain.Source, key string, token uint64, rec *domain.PlayerRecord) *domain.PlayerRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending[key] != token {
		return nil
	}
	delete(c.pending, key)
	if rec.IsEmpty() {
		return nil
	}
	bySource, ok := c.entries[id]
	if !ok {
		bySource = make(map[domain.Source]entry)
		c.entries[id] = bySource
	}
	bySource[src] = entry{record: rec, insertedAt: c.clock.Now()}
	return rec
}

func (c *CrossCache) release(key string, token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending[key] == token {
		delete(c.pending, key)
	}
}

func (c *CrossCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uuid.UUID]map[domain.Source]entry)
	c.pending = make(map[string]uint64)
}

func (c *CrossCache) EvictAbsent(live []uuid.UUID) {
	keep := make(map[uuid.UUID]struct{}, len(live))
	for _, id := range live {
		keep[id] = struct{}{}
	}
	c.evictAbsent(keep)
}

func (c *CrossCache) evictAbsent(keep map[uuid.UUID]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.entries {
		if _, ok := keep[id]; !ok {
			delete(c.entries, id)
		}
	}
}

func (c *CrossCache) Sweep() int {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for id, bySource := range c.entries {
		for src, e := range bySource {
			if !e.fresh(now, c.ttl) {
				delete(bySource, src)
				removed++
			}
		}
		if len(bySource) == 0 {
			delete(c.entries, id)
		}
	}
	return removed
}
