package api

import (
	"context"
	"errors"
	"fmt"
	"tiertagger/internal/constants"
	"tiertagger/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TierListBackend serves the MCTiers style API (/profile/<uuid>, /mode/list),
// which SubTiers also implements.
type TierListBackend struct {
	kind   domain.Source
	client *Client
	modes  ModeResolver
	icons  map[string]string
	colors map[string]string
	logger zerolog.Logger
}

func NewMCTiers(client *Client, modes ModeResolver, logger zerolog.Logger) *TierListBackend {
	return &TierListBackend{
		kind:   domain.MCTiers,
		client: client,
		modes:  modes,
		icons:  defaultIcons,
		colors: defaultColors,
		logger: logger.With().Str("source", domain.MCTiers.String()).Logger(),
	}
}

func NewSubTiers(client *Client, modes ModeResolver, logger zerolog.Logger) *TierListBackend {
	return &TierListBackend{
		kind:   domain.SubTiers,
		client: client,
		modes:  modes,
		icons:  subTiersIcons,
		colors: subTiersColors,
		logger: logger.With().Str("source", domain.SubTiers.String()).Logger(),
	}
}

func (b *TierListBackend) Kind() domain.Source {
	return b.kind
}

func (b *TierListBackend) FetchRecord(ctx context.Context, id uuid.UUID, name string) (*domain.PlayerRecord, error) {
	profile, err := getJSON[profileResponse](ctx, b.client, "/profile/"+id.String(), constants.RecordFetchTimeout)
	if errors.Is(err, ErrNotFound) {
		b.logger.Debug().Str("uuid", id.String()).Msg("player not listed")
		return emptyRecord(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s profile: %w", b.kind.DisplayName(), err)
	}
	return profile.toRecord(b.kind, b.modes, b.logger), nil
}

func (b *TierListBackend) FetchModes(ctx context.Context) (map[string]domain.GameMode, error) {
	list, err := getJSON[map[string]modeListEntry](ctx, b.client, "/mode/list", constants.ModeListTimeout)
	if err != nil {
		b.logger.Error().Err(err).Msg("modes not found, try again soon")
		return nil, fmt.Errorf("fetch %s modes: %w", b.kind.DisplayName(), err)
	}
	if len(*list) == 0 {
		b.logger.Error().Msg("mode list is empty")
		return nil, fmt.Errorf("fetch %s modes: %w: empty list", b.kind.DisplayName(), ErrMalformed)
	}
	return buildModes(*list, b.icons, b.colors), nil
}
