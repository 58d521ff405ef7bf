package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"tiertagger/internal/api"
	"tiertagger/internal/cache"
	"tiertagger/internal/catalog"
	"tiertagger/internal/config"
	"tiertagger/internal/constants"
	"tiertagger/internal/domain"
	"tiertagger/internal/tag"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrUnknownSource  = errors.New("no backend registered for source")
)

// Dispatcher runs a callback on the caller's preferred goroutine, e.g. a
// render thread. The default runs it inline on the worker.
type Dispatcher func(func())

// UpdateFunc is notified when new data for a player has been stored.
type UpdateFunc func(id uuid.UUID)

type TagService struct {
	cfg      *config.Config
	registry *api.Registry
	catalog  *catalog.Catalog
	names    *api.NameResolver
	players  *cache.PlayerCache
	cross    *cache.CrossCache
	pool     cache.Submitter
	logger   zerolog.Logger

	mu          sync.RWMutex
	source      domain.Source
	displayMode domain.DisplayMode
	gameMode    int
	dispatch    Dispatcher
	onUpdate    UpdateFunc
}

func NewTagService(
	cfg *config.Config,
	registry *api.Registry,
	cat *catalog.Catalog,
	names *api.NameResolver,
	players *cache.PlayerCache,
	cross *cache.CrossCache,
	pool cache.Submitter,
	logger zerolog.Logger,
) *TagService {
	return &TagService{
		cfg:         cfg,
		registry:    registry,
		catalog:     cat,
		names:       names,
		players:     players,
		cross:       cross,
		pool:        pool,
		logger:      logger,
		source:      cfg.Source,
		displayMode: cfg.DisplayMode,
		gameMode:    cfg.GameMode,
		dispatch:    func(f func()) { f() },
	}
}

func (s *TagService) Source() domain.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

func (s *TagService) DisplayMode() domain.DisplayMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayMode
}

func (s *TagService) SetDisplayMode(mode domain.DisplayMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.displayMode = mode
}

// SetGameMode selects the category by its index in the active catalog.
func (s *TagService) SetGameMode(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameMode = index
}

// SelectedMode returns the selected category, or nil while the catalog is
// loading or the index is out of range.
func (s *TagService) SelectedMode() *domain.GameMode {
	s.mu.RLock()
	index := s.gameMode
	s.mu.RUnlock()

	mode, ok := s.catalog.ModeAt(index)
	if !ok {
		return nil
	}
	return &mode
}

// OnUpdate registers the completion callback and how to dispatch it. A nil
// dispatcher runs callbacks inline.
func (s *TagService) OnUpdate(fn UpdateFunc, dispatch Dispatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}
	s.dispatch = dispatch
}

func (s *TagService) notify(id uuid.UUID) {
	s.mu.RLock()
	fn, dispatch := s.onUpdate, s.dispatch
	s.mu.RUnlock()
	if fn == nil {
		return
	}
	dispatch(func() { fn(id) })
}

// primary returns the active source with the cache epoch it belongs to. The
// epoch is read first: SwitchSource sets the source before clearing, so a
// stale source always pairs with a stale epoch.
func (s *TagService) primary() (uint64, domain.Source) {
	epoch := s.players.Epoch()
	return epoch, s.Source()
}

// TriggerFetch schedules a primary lookup unless the player is already
// cached or in flight. It never blocks on the network.
func (s *TagService) TriggerFetch(id uuid.UUID, name string) bool {
	epoch, src := s.primary()
	return s.players.FetchIfAbsentAt(epoch, id, name, s.fetchPrimary(src), func(rec *domain.PlayerRecord) {
		if rec == nil {
			return
		}
		s.notify(id)

		if s.DisplayMode().CrossAPI() && (!rec.IsEmpty() || s.cfg.CrossFetchOnEmpty) {
			n := s.cross.FetchFromOthers(id, name, src, s.registry.Sources(), s.fetchFrom, func(_ domain.Source, crossRec *domain.PlayerRecord) {
				if crossRec != nil {
					s.notify(id)
				}
			})
			if n > 0 {
				s.logger.Debug().Str("uuid", id.String()).Int("sources", n).Msg("cross fetch scheduled")
			}
		}

		if s.borrowsBadge(src, rec) {
			s.attachBadge(id, name)
		}
	})
}

func (s *TagService) fetchPrimary(src domain.Source) cache.FetchFunc {
	return func(ctx context.Context, id uuid.UUID, name string) (*domain.PlayerRecord, error) {
		return s.fetchFrom(ctx, src, id, name)
	}
}

func (s *TagService) borrowsBadge(src domain.Source, rec *domain.PlayerRecord) bool {
	return s.cfg.BorrowBadge && src != domain.TierTests && !rec.IsEmpty()
}

// fetchFrom loads src's category list before fetching so that a record is
// never normalized against a missing catalog.
func (s *TagService) fetchFrom(ctx context.Context, src domain.Source, id uuid.UUID, name string) (*domain.PlayerRecord, error) {
	backend, ok := s.registry.Get(src)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, src)
	}
	if err := s.catalog.EnsureLoaded(ctx, backend); err != nil {
		return nil, fmt.Errorf("failed to load %s modes: %w", src.DisplayName(), err)
	}
	return backend.FetchRecord(ctx, id, name)
}

// attachBadge copies the Tier Tests badge onto the cached primary record
// once it is available. The record keeps its own badge when Tier Tests has
// none.
func (s *TagService) attachBadge(id uuid.UUID, name string) {
	s.pool.Submit("badge-fetch", func(ctx context.Context) {
		badge := s.tierTestsBadge(ctx, id, name)
		if badge == "" {
			return
		}
		if s.players.SetBadge(id, badge) {
			s.notify(id)
		}
	})
}

// tierTestsBadge returns the Tier Tests badge for a player, from the cross
// cache when present. Empty means none.
func (s *TagService) tierTestsBadge(ctx context.Context, id uuid.UUID, name string) string {
	if cached, ok := s.cross.Get(id, domain.TierTests); ok {
		return cached.Badge
	}
	backend, ok := s.registry.Get(domain.TierTests)
	if !ok {
		return ""
	}
	other, err := backend.FetchRecord(ctx, id, name)
	if err != nil {
		s.logger.Debug().Err(err).Str("uuid", id.String()).Msg("badge lookup failed")
		return ""
	}
	return other.Badge
}

func (s *TagService) InFlight(id uuid.UUID) bool {
	return s.players.InFlight(id)
}

// GetCached returns a fresh, non-empty primary record.
func (s *TagService) GetCached(id uuid.UUID) (*domain.PlayerRecord, bool) {
	rec, ok := s.players.Get(id)
	if !ok || rec.IsEmpty() {
		return nil, false
	}
	return rec, true
}

// ResolveTag computes the label for a player from cached data only.
func (s *TagService) ResolveTag(id uuid.UUID, mode domain.DisplayMode, selected *domain.GameMode) tag.Result {
	primary, _ := s.players.Get(id)
	in := tag.Input{
		Primary:       primary,
		PrimarySource: s.Source(),
		Mode:          mode,
		Selected:      selected,
	}
	if mode.CrossAPI() {
		in.Cross = s.cross.All(id)
	}
	return tag.Resolve(in)
}

// Tag resolves with the current display mode and selected category and
// renders the label.
func (s *TagService) Tag(id uuid.UUID) string {
	res := s.ResolveTag(id, s.DisplayMode(), s.SelectedMode())
	if !s.cfg.ShowRegion {
		res.Region = nil
	}
	return tag.Format(res, s.cfg.UseHighLow)
}

func (s *TagService) ClearAll() {
	s.players.Clear()
}

func (s *TagService) EvictAbsent(live []uuid.UUID) int {
	return s.players.EvictAbsent(live)
}

// Sweep drops expired entries from both caches.
func (s *TagService) Sweep() int {
	return s.players.Sweep() + s.cross.Sweep()
}

// SwitchSource activates src's category list and clears every cache. If the
// list cannot be loaded the current source stays active.
func (s *TagService) SwitchSource(ctx context.Context, src domain.Source) error {
	backend, ok := s.registry.Get(src)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSource, src)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ModeListTimeout)
	defer cancel()

	if err := s.catalog.Activate(ctx, backend); err != nil {
		s.logger.Error().Err(err).Str("source", src.String()).Msg("failed to switch source")
		return fmt.Errorf("failed to activate %s: %w", src.DisplayName(), err)
	}

	s.mu.Lock()
	s.source = src
	s.mu.Unlock()

	s.ClearAll()
	s.logger.Info().Str("source", src.String()).Msg("tier source switched")
	return nil
}

// LookupByName resolves a name and returns its primary record, from the
// cache unless fresh is set. Empty records are returned as found.
func (s *TagService) LookupByName(ctx context.Context, name string, fresh bool) (*domain.PlayerResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.LookupTimeout)
	defer cancel()
	ctx, logger := withLookupID(ctx, s.logger)

	start := time.Now()
	logger.Info().Str("name", name).Bool("fresh", fresh).Msg("looking up player")

	identity, ok := s.names.Resolve(ctx, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}

	if !fresh {
		if rec, ok := s.players.Get(identity.ID); ok {
			logger.Debug().Str("uuid", identity.ID.String()).Msg("returning cached record")
			return &domain.PlayerResult{Name: identity.Name, ID: identity.ID, Record: rec}, nil
		}
	}

	epoch, src := s.primary()
	rec, err := s.fetchFrom(ctx, src, identity.ID, identity.Name)
	if err != nil {
		logger.Error().Err(err).Str("uuid", identity.ID.String()).Msg("failed to fetch record")
		return nil, fmt.Errorf("failed to fetch record: %w", err)
	}
	if s.borrowsBadge(src, rec) {
		if badge := s.tierTestsBadge(ctx, identity.ID, identity.Name); badge != "" {
			rec.Badge = badge
		}
	}
	if !s.players.PutAt(epoch, identity.ID, rec) {
		logger.Debug().Str("uuid", identity.ID.String()).Msg("source switched during lookup, record not cached")
	}

	logger.Info().
		Str("uuid", identity.ID.String()).
		Int("tiers", len(rec.Tiers)).
		Dur("duration", time.Since(start)).
		Msg("lookup completed")
	return &domain.PlayerResult{Name: identity.Name, ID: identity.ID, Record: rec}, nil
}

// LookupAll queries every backend concurrently. Backends that fail or do
// not list the player are left out of the result.
func (s *TagService) LookupAll(ctx context.Context, name string) (domain.NameResult, map[domain.Source]*domain.PlayerRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.LookupTimeout)
	defer cancel()
	ctx, logger := withLookupID(ctx, s.logger)

	identity, ok := s.names.Resolve(ctx, name)
	if !ok {
		return domain.NameResult{}, nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}

	var mu sync.Mutex
	results := make(map[domain.Source]*domain.PlayerRecord)

	g, gCtx := errgroup.WithContext(ctx)
	for _, src := range s.registry.Sources() {
		src := src
		g.Go(func() error {
			rec, err := s.fetchFrom(gCtx, src, identity.ID, identity.Name)
			if err != nil {
				logger.Warn().Err(err).Str("source", src.String()).Msg("backend lookup failed")
				return nil
			}
			if rec.IsEmpty() {
				return nil
			}
			mu.Lock()
			results[src] = rec
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return identity, nil, err
	}

	logger.Info().Str("uuid", identity.ID.String()).Int("sources", len(results)).Msg("lookup across backends completed")
	return identity, results, nil
}
