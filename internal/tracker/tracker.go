package tracker

import (
	"context"
	"sync"
	"tiertagger/internal/config"
	"tiertagger/internal/domain"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Player struct {
	ID   uuid.UUID
	Name string
}

// PlayerSource lists the players currently visible to the presentation layer.
type PlayerSource interface {
	Players() []Player
}

// Tagger is the part of the tag service the tracker drives.
type Tagger interface {
	TriggerFetch(id uuid.UUID, name string) bool
	GetCached(id uuid.UUID) (*domain.PlayerRecord, bool)
	InFlight(id uuid.UUID) bool
	EvictAbsent(live []uuid.UUID) int
	Sweep() int
}

// Tracker periodically requests data for visible players and keeps the
// caches bounded to the players still around.
type Tracker struct {
	source PlayerSource
	tags   Tagger
	logger zerolog.Logger

	discovery time.Duration
	prune     time.Duration
	cleanup   time.Duration

	mu      sync.Mutex
	pending map[uuid.UUID]struct{}

	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg *config.Config, source PlayerSource, tags Tagger, logger zerolog.Logger) *Tracker {
	return &Tracker{
		source:    source,
		tags:      tags,
		logger:    logger,
		discovery: cfg.DiscoveryInterval,
		prune:     cfg.PruneInterval,
		cleanup:   cfg.CleanupInterval,
		pending:   make(map[uuid.UUID]struct{}),
	}
}

// Start runs the tracker in the background until Stop is called.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})
	go func() {
		defer close(t.done)
		t.Run(ctx)
	}()
}

func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel = nil
	t.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Run blocks until ctx is cancelled.
func (t *Tracker) Run(ctx context.Context) {
	discovery := time.NewTicker(t.discovery)
	defer discovery.Stop()
	prune := time.NewTicker(t.prune)
	defer prune.Stop()
	cleanup := time.NewTicker(t.cleanup)
	defer cleanup.Stop()

	t.logger.Debug().
		Dur("discovery", t.discovery).
		Dur("prune", t.prune).
		Dur("cleanup", t.cleanup).
		Msg("tracker started")

	t.Discover()
	for {
		select {
		case <-ctx.Done():
			t.logger.Debug().Msg("tracker stopped")
			return
		case <-discovery.C:
			t.Discover()
		case <-prune.C:
			t.PrunePending()
		case <-cleanup.C:
			t.Cleanup()
		}
	}
}

// Discover drops pending ids that are settled and triggers fetches for
// visible players that have no data yet.
func (t *Tracker) Discover() int {
	players := t.source.Players()

	t.mu.Lock()
	defer t.mu.Unlock()

	for id := range t.pending {
		if _, ok := t.tags.GetCached(id); ok || !t.tags.InFlight(id) {
			delete(t.pending, id)
		}
	}

	triggered := 0
	for _, p := range players {
		if _, ok := t.pending[p.ID]; ok {
			continue
		}
		if _, ok := t.tags.GetCached(p.ID); ok {
			continue
		}
		if t.tags.TriggerFetch(p.ID, p.Name) {
			t.pending[p.ID] = struct{}{}
			triggered++
		}
	}
	if triggered > 0 {
		t.logger.Debug().Int("triggered", triggered).Int("pending", len(t.pending)).Msg("fetches triggered")
	}
	return triggered
}

// PrunePending forgets pending ids for players no longer visible.
func (t *Tracker) PrunePending() int {
	visible := make(map[uuid.UUID]struct{})
	for _, p := range t.source.Players() {
		visible[p.ID] = struct{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for id := range t.pending {
		if _, ok := visible[id]; !ok {
			delete(t.pending, id)
			removed++
		}
	}
	return removed
}

// Cleanup evicts cached players that are no longer visible and expired
// entries.
func (t *Tracker) Cleanup() {
	players := t.source.Players()
	live := make([]uuid.UUID, 0, len(players))
	for _, p := range players {
		live = append(live, p.ID)
	}

	evicted := t.tags.EvictAbsent(live)
	expired := t.tags.Sweep()
	t.logger.Debug().Int("evicted", evicted).Int("expired", expired).Msg("cache cleanup")
}

// Reset forgets pending fetches, e.g. after a world change.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = make(map[uuid.UUID]struct{})
}

func (t *Tracker) PendingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}
