package api

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"tiertagger/internal/constants"
	"tiertagger/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type profileLookup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NameResolver maps display names to stable player ids. Results are cached
// for the process lifetime; concurrent misses for one name are not merged.
type NameResolver struct {
	client *Client
	logger zerolog.Logger

	mu    sync.RWMutex
	cache map[string]domain.NameResult
}

func NewNameResolver(client *Client, logger zerolog.Logger) *NameResolver {
	return &NameResolver{
		client: client,
		logger: logger,
		cache:  make(map[string]domain.NameResult),
	}
}

func (r *NameResolver) Cached(name string) (domain.NameResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.cache[strings.ToLower(name)]
	return res, ok
}

func (r *NameResolver) Resolve(ctx context.Context, name string) (domain.NameResult, bool) {
	if res, ok := r.Cached(name); ok {
		return res, true
	}

	resp, err := getJSON[profileLookup](ctx, r.client, "/"+url.PathEscape(name), constants.NameLookupTimeout)
	if err != nil {
		r.logger.Debug().Err(err).Str("name", name).Msg("name lookup failed")
		return domain.NameResult{}, false
	}

	id, err := uuid.Parse(resp.ID)
	if err != nil {
		r.logger.Warn().Err(err).Str("name", name).Str("id", resp.ID).Msg("invalid profile id")
		return domain.NameResult{}, false
	}

	res := domain.NameResult{Name: resp.Name, ID: id}
	r.mu.Lock()
	r.cache[strings.ToLower(name)] = res
	r.mu.Unlock()

	r.logger.Debug().Str("name", res.Name).Str("uuid", id.String()).Msg("name resolved")
	return res, true
}
