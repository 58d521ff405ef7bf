package cache

import (
	"context"
	"sync"
	"tiertagger/internal/domain"
	"tiertagger/internal/worker"
	"time"

	"github.com/google/uuid"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// inlinePool runs each task on the caller's goroutine.
type inlinePool struct {
	mu        sync.Mutex
	submitted int
	reject    bool
}

func (p *inlinePool) Submit(_ string, task worker.Task) bool {
	p.mu.Lock()
	if p.reject {
		p.mu.Unlock()
		return false
	}
	p.submitted++
	p.mu.Unlock()
	task(context.Background())
	return true
}

func recordWith(mode string, tier domain.Tier) *domain.PlayerRecord {
	r := domain.NewPlayerRecord()
	r.AddTier(domain.GameMode{Name: mode, Key: mode}, tier)
	return r
}

func fetchReturning(rec *domain.PlayerRecord, err error) FetchFunc {
	return func(context.Context, uuid.UUID, string) (*domain.PlayerRecord, error) {
		return rec, err
	}
}
