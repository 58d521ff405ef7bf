package cache

import (
	"tiertagger/internal/domain"
	"time"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock {
	return systemClock{}
}

type entry struct {
	record     *domain.PlayerRecord
	insertedAt time.Time
}

// fresh reports now - insertedAt < ttl; an entry exactly ttl old is stale.
func (e entry) fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.insertedAt) < ttl
}
