package fx

import (
	"tiertagger/internal/api"
	"tiertagger/internal/cache"
	"tiertagger/internal/catalog"
	"tiertagger/internal/config"
	"tiertagger/internal/logger"
	"tiertagger/internal/service"
	"tiertagger/internal/tracker"
	"tiertagger/internal/worker"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideModeResolver(c *catalog.Catalog) api.ModeResolver {
	return c
}

func ProvidePool(cfg *config.Config, logger zerolog.Logger) *worker.Pool {
	return worker.NewPool(cfg.Workers, cfg.QueueSize, logger)
}

func ProvideSubmitter(pool *worker.Pool) cache.Submitter {
	return pool
}

func ProvideCrossCache(cfg *config.Config, pool cache.Submitter, logger zerolog.Logger) *cache.CrossCache {
	return cache.NewCrossCache(cfg.CacheTTL, cache.SystemClock(), pool, logger)
}

func ProvidePlayerCache(cfg *config.Config, pool cache.Submitter, cross *cache.CrossCache, logger zerolog.Logger) *cache.PlayerCache {
	return cache.NewPlayerCache(cfg.CacheTTL, cache.SystemClock(), pool, cross, logger)
}

func ProvidePlayerSource(p *tracker.StaticPlayers) tracker.PlayerSource {
	return p
}

func ProvideTagger(s *service.TagService) tracker.Tagger {
	return s
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	// modes
	fx.Provide(catalog.New),
	fx.Provide(ProvideModeResolver),
	// api clients
	fx.Provide(api.NewDefaultRegistry),
	fx.Provide(api.NewDefaultNameResolver),
	// workers and caches
	fx.Provide(ProvidePool),
	fx.Provide(ProvideSubmitter),
	fx.Provide(ProvideCrossCache),
	fx.Provide(ProvidePlayerCache),
	// svc
	fx.Provide(service.NewTagService),
	// tracker
	fx.Provide(tracker.NewStaticPlayers),
	fx.Provide(ProvidePlayerSource),
	fx.Provide(ProvideTagger),
	fx.Provide(tracker.New),
)
