package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"tiertagger/internal/constants"
	"tiertagger/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PvPTiersBackend looks players up by name; the id is ignored.
type PvPTiersBackend struct {
	client *Client
	modes  ModeResolver
	logger zerolog.Logger
}

func NewPvPTiers(client *Client, modes ModeResolver, logger zerolog.Logger) *PvPTiersBackend {
	return &PvPTiersBackend{
		client: client,
		modes:  modes,
		logger: logger.With().Str("source", domain.PvPTiers.String()).Logger(),
	}
}

func (b *PvPTiersBackend) Kind() domain.Source {
	return domain.PvPTiers
}

func (b *PvPTiersBackend) FetchRecord(ctx context.Context, _ uuid.UUID, name string) (*domain.PlayerRecord, error) {
	if name == "" {
		b.logger.Debug().Msg("no name to search by")
		return emptyRecord(), nil
	}
	profile, err := getJSON[profileResponse](ctx, b.client, "/search_profile/"+url.PathEscape(name), constants.RecordFetchTimeout)
	if errors.Is(err, ErrNotFound) {
		b.logger.Debug().Str("name", name).Msg("player not listed")
		return emptyRecord(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch PVPTiers profile: %w", err)
	}
	return profile.toRecord(domain.PvPTiers, b.modes, b.logger), nil
}

// FetchModes returns the fixed PvPTiers category list; the service has no
// mode endpoint.
func (b *PvPTiersBackend) FetchModes(context.Context) (map[string]domain.GameMode, error) {
	return map[string]domain.GameMode{
		"Sword":     {Name: "Sword", Key: "sword", Color: "#a4fdf0", Icon: "\uE706"},
		"UHC":       {Name: "UHC", Key: "uhc", Color: "#FF5555", Icon: "\uE707"},
		"Pot":       {Name: "Pot", Key: "pot", Color: "#ff0000", Icon: "\uE704"},
		"SMP":       {Name: "SMP", Key: "smp", Color: "#eccb45", Icon: "\uE705"},
		"Axe":       {Name: "Axe", Key: "axe", Color: "#55FF55", Icon: "\uE701"},
		"NetherPot": {Name: "NetherPot", Key: "netherpot", Color: "#7d4a40", Icon: "\uE703"},
		"Diamond":   {Name: "Diamond", Key: "diamond", Color: "#55FFFF"},
		"Crystal":   {Name: "Crystal", Key: "crystal", Color: "#FF55FF"},
		"Vanilla":   {Name: "Vanilla", Key: "vanilla", Color: "#FF55FF", Icon: "\uE708"},
	}, nil
}
