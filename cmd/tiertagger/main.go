package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"tiertagger/internal/config"
	"tiertagger/internal/constants"
	"tiertagger/internal/domain"
	fxmodules "tiertagger/internal/fx"
	"tiertagger/internal/logger"
	"tiertagger/internal/service"
	"tiertagger/internal/tag"
	"tiertagger/internal/tracker"
	"tiertagger/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
)

// options carries command-line overrides into the fx graph. Zero values keep
// the configured settings.
type options struct {
	Names       []string
	Source      *domain.Source
	DisplayMode *domain.DisplayMode
	GameMode    int
}

func main() {
	app := &cli.App{
		Name:      "tiertagger",
		Usage:     "resolve and track player tiers across ranking services",
		Version:   constants.Version,
		ArgsUsage: "[player names...]",
		Flags:     flags(),
		Action: func(c *cli.Context) error {
			opts, err := parseOptions(c)
			if err != nil {
				return err
			}
			fx.New(
				fxmodules.Module,
				fx.Supply(opts),
				fx.StopTimeout(constants.ShutdownTimeout),
				fx.Invoke(runTagger),
			).Run()
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "tier source, e.g. MC_TIERS or 1"},
		&cli.StringFlag{Name: "display-mode", Aliases: []string{"m"}, Usage: "tag display mode, e.g. CROSS_API_ANY_MODE"},
		&cli.IntFlag{Name: "game-mode", Aliases: []string{"g"}, Value: -1, Usage: "selected category index"},
	}
}

func parseOptions(c *cli.Context) (options, error) {
	opts := options{Names: c.Args().Slice(), GameMode: c.Int("game-mode")}
	if v := c.String("source"); v != "" {
		src, err := domain.ParseSource(v)
		if err != nil {
			return options{}, err
		}
		opts.Source = &src
	}
	if v := c.String("display-mode"); v != "" {
		mode, err := domain.ParseDisplayMode(v)
		if err != nil {
			return options{}, err
		}
		opts.DisplayMode = &mode
	}
	return opts, nil
}

func runTagger(
	lc fx.Lifecycle,
	opts options,
	cfg *config.Config,
	pool *worker.Pool,
	svc *service.TagService,
	players *tracker.StaticPlayers,
	track *tracker.Tracker,
	logger zerolog.Logger,
) {
	zerolog.SetGlobalLevel(loggerLevel(cfg))

	source := cfg.Source
	if opts.Source != nil {
		source = *opts.Source
	}
	if opts.DisplayMode != nil {
		svc.SetDisplayMode(*opts.DisplayMode)
	}
	if opts.GameMode >= 0 {
		svc.SetGameMode(opts.GameMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	svc.OnUpdate(func(id uuid.UUID) {
		logger.Info().Str("uuid", id.String()).Str("tag", svc.Tag(id)).Msg("tag updated")
	}, nil)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			pool.Start()

			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := svc.SwitchSource(ctx, source); err != nil {
					logger.Warn().Err(err).Msg("modes unavailable, lookups will retry")
				}
				lookupNames(ctx, svc, players, opts.Names, cfg.UseHighLow, logger)
				track.Start()
			}()

			logger.Info().
				Str("version", constants.Version).
				Str("source", source.String()).
				Str("display_mode", svc.DisplayMode().String()).
				Msg("tiertagger started")
			return nil
		},
		OnStop: func(context.Context) error {
			logger.Info().Msg("shutting down")
			cancel()
			wg.Wait()
			track.Stop()
			pool.Stop()
			logger.Info().Msg("stopped gracefully")
			return nil
		},
	})
}

func loggerLevel(cfg *config.Config) zerolog.Level {
	return logger.FromString(cfg.LogLevel)
}

// lookupNames resolves each name once, logs its tag on every backend and
// hands it to the tracker.
func lookupNames(ctx context.Context, svc *service.TagService, players *tracker.StaticPlayers, names []string, highLow bool, logger zerolog.Logger) {
	for _, name := range names {
		if ctx.Err() != nil {
			return
		}

		res, err := svc.LookupByName(ctx, name, false)
		if err != nil {
			logger.Warn().Err(err).Str("name", name).Msg("lookup failed")
			continue
		}
		players.Add(tracker.Player{ID: res.ID, Name: res.Name})
		logger.Info().Str("name", res.Name).Str("tag", svc.Tag(res.ID)).Msg("player resolved")

		_, all, err := svc.LookupAll(ctx, name)
		if err != nil {
			logger.Warn().Err(err).Str("name", name).Msg("lookup across backends failed")
			continue
		}
		for src, rec := range all {
			best := tag.Resolve(tag.Input{Primary: rec, PrimarySource: src, Mode: domain.HighestAlways})
			logger.Info().
				Str("name", res.Name).
				Str("source", src.DisplayName()).
				Str("tag", tag.Format(best, highLow)).
				Msg("backend tier")
		}
	}
}
