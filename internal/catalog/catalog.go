package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"tiertagger/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Loader supplies a backend's category list.
type Loader interface {
	Kind() domain.Source
	FetchModes(ctx context.Context) (map[string]domain.GameMode, error)
}

type snapshot struct {
	source domain.Source
	keys   []string
	modes  map[string]domain.GameMode
}

func newSnapshot(src domain.Source, modes map[string]domain.GameMode) *snapshot {
	keys := make([]string, 0, len(modes))
	for k := range modes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &snapshot{source: src, keys: keys, modes: modes}
}

// Catalog keeps every backend's category list once loaded, plus the active
// view for the selected backend. The active view is replaced as a whole on
// Activate and never mutated in place.
type Catalog struct {
	mu       sync.RWMutex
	bySource map[domain.Source]map[string]domain.GameMode

	active  atomic.Pointer[snapshot]
	loading atomic.Int32
	group   singleflight.Group
	logger  zerolog.Logger
}

func New(logger zerolog.Logger) *Catalog {
	c := &Catalog{
		bySource: make(map[domain.Source]map[string]domain.GameMode),
		logger:   logger,
	}
	c.active.Store(&snapshot{modes: map[string]domain.GameMode{}})
	return c
}

// IsLoading reports at least one activation in progress. Lookups against
// the active view report absent meanwhile.
func (c *Catalog) IsLoading() bool {
	return c.loading.Load() > 0
}

func (c *Catalog) IsLoaded(src domain.Source) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.bySource[src]
	return ok
}

// Activate makes src the active view, loading its list first if needed. On
// failure the previous view stays active.
func (c *Catalog) Activate(ctx context.Context, loader Loader) error {
	src := loader.Kind()
	if modes, ok := c.cached(src); ok {
		c.active.Store(newSnapshot(src, modes))
		return nil
	}

	c.loading.Add(1)
	defer c.loading.Add(-1)

	modes, err := c.load(ctx, loader)
	if err != nil {
		return err
	}
	c.active.Store(newSnapshot(src, modes))
	c.logger.Info().Str("source", src.String()).Int("modes", len(modes)).Msg("active modes updated")
	return nil
}

// EnsureLoaded loads src's list if absent without touching the active view.
func (c *Catalog) EnsureLoaded(ctx context.Context, loader Loader) error {
	if _, ok := c.cached(loader.Kind()); ok {
		return nil
	}
	_, err := c.load(ctx, loader)
	return err
}

func (c *Catalog) load(ctx context.Context, loader Loader) (map[string]domain.GameMode, error) {
	src := loader.Kind()
	v, err, _ := c.group.Do(src.String(), func() (interface{}, error) {
		if modes, ok := c.cached(src); ok {
			return modes, nil
		}
		modes, err := loader.FetchModes(ctx)
		if err != nil {
			return nil, err
		}
		if len(modes) == 0 {
			return nil, fmt.Errorf("empty mode list for %s", src)
		}
		c.mu.Lock()
		c.bySource[src] = modes
		c.mu.Unlock()
		return modes, nil
	})
	if err != nil {
		c.logger.Error().Err(err).Str("source", src.String()).Msg("failed to load modes")
		return nil, fmt.Errorf("load modes for %s: %w", src, err)
	}
	return v.(map[string]domain.GameMode), nil
}

func (c *Catalog) cached(src domain.Source) (map[string]domain.GameMode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	modes, ok := c.bySource[src]
	return modes, ok
}

// Active returns the source of the active view; false before any activation.
func (c *Catalog) Active() (domain.Source, bool) {
	snap := c.active.Load()
	return snap.source, len(snap.keys) > 0
}

// ModeAt returns the i-th category of the active view in key order.
func (c *Catalog) ModeAt(i int) (domain.GameMode, bool) {
	if c.IsLoading() {
		return domain.GameMode{}, false
	}
	snap := c.active.Load()
	if i < 0 || i >= len(snap.keys) {
		return domain.GameMode{}, false
	}
	return snap.modes[snap.keys[i]], true
}

func (c *Catalog) Size() int {
	return len(c.active.Load().keys)
}

// Modes returns the active categories in key order.
func (c *Catalog) Modes() []domain.GameMode {
	snap := c.active.Load()
	out := make([]domain.GameMode, 0, len(snap.keys))
	for _, k := range snap.keys {
		out = append(out, snap.modes[k])
	}
	return out
}

// Lookup resolves a category name against the active view, then against
// every loaded source. Exact matches win over alias matches at each level.
func (c *Catalog) Lookup(name string) (domain.GameMode, bool) {
	if c.IsLoading() {
		return domain.GameMode{}, false
	}

	snap := c.active.Load()
	if m, ok := findExact(snap, name); ok {
		return m, true
	}
	if m, ok := findAlias(snap, name); ok {
		return m, true
	}

	all := c.loadedSnapshots()
	for _, s := range all {
		if m, ok := findExact(s, name); ok {
			return m, true
		}
	}
	for _, s := range all {
		if m, ok := findAlias(s, name); ok {
			return m, true
		}
	}
	return domain.GameMode{}, false
}

// LookupFor prefers src's own list, then falls back to Lookup.
func (c *Catalog) LookupFor(src domain.Source, name string) (domain.GameMode, bool) {
	if modes, ok := c.cached(src); ok {
		snap := newSnapshot(src, modes)
		if m, ok := findExact(snap, name); ok {
			return m, true
		}
		if m, ok := findAlias(snap, name); ok {
			return m, true
		}
	}
	return c.Lookup(name)
}

func (c *Catalog) loadedSnapshots() []*snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*snapshot, 0, len(c.bySource))
	for _, src := range domain.Sources() {
		if modes, ok := c.bySource[src]; ok {
			out = append(out, newSnapshot(src, modes))
		}
	}
	return out
}

func findExact(s *snapshot, name string) (domain.GameMode, bool) {
	for _, k := range s.keys {
		m := s.modes[k]
		if strings.EqualFold(k, name) || strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return domain.GameMode{}, false
}

func findAlias(s *snapshot, name string) (domain.GameMode, bool) {
	for _, k := range s.keys {
		m := s.modes[k]
		if domain.SameMode(k, name) || m.Matches(name) {
			return m, true
		}
	}
	return domain.GameMode{}, false
}
