package cache

import (
	"context"
	"sync"
	"tiertagger/internal/domain"
	"tiertagger/internal/worker"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Submitter runs tasks off the caller's goroutine without blocking.
type Submitter interface {
	Submit(name string, task worker.Task) bool
}

type FetchFunc func(ctx context.Context, id uuid.UUID, name string) (*domain.PlayerRecord, error)

// PlayerCache holds the primary backend's record per player. At most one
// fetch per id is in flight; the marker is released in the same critical
// section that stores the result.
type PlayerCache struct {
	mu       sync.RWMutex
	entries  map[uuid.UUID]entry
	inFlight map[uuid.UUID]uint64
	seq      uint64
	epoch    uint64

	ttl    time.Duration
	clock  Clock
	pool   Submitter
	cross  *CrossCache
	logger zerolog.Logger
}

func NewPlayerCache(ttl time.Duration, clock Clock, pool Submitter, cross *CrossCache, logger zerolog.Logger) *PlayerCache {
	return &PlayerCache{
		entries:  make(map[uuid.UUID]entry),
		inFlight: make(map[uuid.UUID]uint64),
		ttl:      ttl,
		clock:    clock,
		pool:     pool,
		cross:    cross,
		logger:   logger,
	}
}

// Get returns the record if it is younger than the TTL, empty records
// included.
func (c *PlayerCache) Get(id uuid.UUID) (*domain.PlayerRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok || !e.fresh(c.clock.Now(), c.ttl) {
		return nil, false
	}
	return e.record, true
}

// Has reports a fresh, non-empty record.
func (c *PlayerCache) Has(id uuid.UUID) bool {
	rec, ok := c.Get(id)
	return ok && !rec.IsEmpty()
}

func (c *PlayerCache) InFlight(id uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.inFlight[id]
	return ok
}

// Epoch counts calls to Clear. Callers that pick a fetch source before
// reaching the cache pass the epoch they observed to FetchIfAbsentAt or
// PutAt, which refuse to act once the cache has been cleared since.
func (c *PlayerCache) Epoch() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch
}

// FetchIfAbsent submits fetch unless a fetch for id is in flight or a fresh
// entry exists (a known-empty one counts). done, if set, runs on the worker
// after the result is stored, with the stored record or nil.
func (c *PlayerCache) FetchIfAbsent(id uuid.UUID, name string, fetch FetchFunc, done func(*domain.PlayerRecord)) bool {
	return c.FetchIfAbsentAt(c.Epoch(), id, name, fetch, done)
}

// FetchIfAbsentAt is FetchIfAbsent for a caller that observed epoch. Nothing
// is submitted if the cache has been cleared since.
func (c *PlayerCache) FetchIfAbsentAt(epoch uint64, id uuid.UUID, name string, fetch FetchFunc, done func(*domain.PlayerRecord)) bool {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return false
	}
	if _, ok := c.inFlight[id]; ok {
		c.mu.Unlock()
		return false
	}
	if e, ok := c.entries[id]; ok && e.fresh(c.clock.Now(), c.ttl) {
		c.mu.Unlock()
		return false
	}
	c.seq++
	token := c.seq
	c.inFlight[id] = token
	c.mu.Unlock()

	submitted := c.pool.Submit("player-fetch", func(ctx context.Context) {
		rec, err := fetch(ctx, id, name)
		if err != nil {
			c.logger.Debug().Err(err).Str("uuid", id.String()).Str("name", name).Msg("player fetch failed")
			rec = nil
		}
		stored := c.complete(id, token, rec)
		if done != nil {
			done(stored)
		}
	})
	if !submitted {
		c.release(id, token)
	}
	return submitted
}

func (c *PlayerCache) complete(id uuid.UUID, token uint64, rec *domain.PlayerRecord) *domain.PlayerRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[id] != token {
		// cleared while in flight
		return nil
	}
	delete(c.inFlight, id)
	if rec == nil {
		return nil
	}
	c.entries[id] = entry{record: rec, insertedAt: c.clock.Now()}
	return rec
}

func (c *PlayerCache) release(id uuid.UUID, token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[id] == token {
		delete(c.inFlight, id)
	}
}

// Put stores a record fetched outside FetchIfAbsent.
func (c *PlayerCache) Put(id uuid.UUID, rec *domain.PlayerRecord) {
	c.PutAt(c.Epoch(), id, rec)
}

// PutAt stores rec unless the cache has been cleared since epoch.
func (c *PlayerCache) PutAt(epoch uint64, id uuid.UUID, rec *domain.PlayerRecord) bool {
	if rec == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return false
	}
	c.entries[id] = entry{record: rec, insertedAt: c.clock.Now()}
	return true
}

// SetBadge replaces the badge of a cached record with a copy carrying the
// new value. The insertion time is kept.
func (c *PlayerCache) SetBadge(id uuid.UUID, badge string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return false
	}
	e.record = e.record.WithBadge(badge)
	c.entries[id] = e
	return true
}

// Clear drops every entry and in-flight marker, and the cross-backend
// cache. Fetches still running complete without storing.
func (c *PlayerCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[uuid.UUID]entry)
	c.inFlight = make(map[uuid.UUID]uint64)
	c.epoch++
	c.mu.Unlock()

	if c.cross != nil {
		c.cross.Clear()
	}
	c.logger.Debug().Msg("player cache cleared")
}

// EvictAbsent keeps only entries for live ids, here and in the cross cache.
func (c *PlayerCache) EvictAbsent(live []uuid.UUID) int {
	keep := make(map[uuid.UUID]struct{}, len(live))
	for _, id := range live {
		keep[id] = struct{}{}
	}

	c.mu.Lock()
	removed := 0
	for id := range c.entries {
		if _, ok := keep[id]; !ok {
			delete(c.entries, id)
			removed++
		}
	}
	c.mu.Unlock()

	if c.cross != nil {
		c.cross.evictAbsent(keep)
	}
	return removed
}

// Sweep drops expired entries.
func (c *PlayerCache) Sweep() int {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for id, e := range c.entries {
		if !e.fresh(now, c.ttl) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

func (c *PlayerCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
