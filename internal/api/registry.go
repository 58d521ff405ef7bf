package api

import (
	"tiertagger/internal/config"
	"tiertagger/internal/domain"

	"github.com/rs/zerolog"
)

// Registry holds one backend per source. Adding a backend only needs a new
// Backend implementation and a domain.Source entry.
type Registry struct {
	backends map[domain.Source]Backend
}

func NewRegistry(backends ...Backend) *Registry {
	r := &Registry{backends: make(map[domain.Source]Backend, len(backends))}
	for _, b := range backends {
		r.backends[b.Kind()] = b
	}
	return r
}

func NewDefaultRegistry(cfg *config.Config, modes ModeResolver, logger zerolog.Logger) *Registry {
	httpClient := NewHTTPClient()
	clientFor := func(src domain.Source) *Client {
		return NewClient(ClientOptions{
			BaseURL:   cfg.BaseURL(src),
			UserAgent: cfg.UserAgent,
			Rate:      cfg.RequestRate,
			Burst:     cfg.RequestBurst,
			HTTP:      httpClient,
		}, logger)
	}

	return NewRegistry(
		NewTierTests(clientFor(domain.TierTests), modes, logger),
		NewMCTiers(clientFor(domain.MCTiers), modes, logger),
		NewSubTiers(clientFor(domain.SubTiers), modes, logger),
		NewPvPTiers(clientFor(domain.PvPTiers), modes, logger),
	)
}

func NewDefaultNameResolver(cfg *config.Config, logger zerolog.Logger) *NameResolver {
	client := NewClient(ClientOptions{
		BaseURL:   cfg.MojangURL,
		UserAgent: cfg.UserAgent,
		Rate:      cfg.RequestRate,
		Burst:     cfg.RequestBurst,
	}, logger)
	return NewNameResolver(client, logger)
}

func (r *Registry) Get(src domain.Source) (Backend, bool) {
	b, ok := r.backends[src]
	return b, ok
}

// Sources lists registered backends in domain.Sources order.
func (r *Registry) Sources() []domain.Source {
	var out []domain.Source
	for _, src := range domain.Sources() {
		if _, ok := r.backends[src]; ok {
			out = append(out, src)
		}
	}
	return out
}
