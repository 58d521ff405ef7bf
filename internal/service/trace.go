package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const LookupIDKey contextKey = "lookup_id"

// withLookupID tags a synchronous lookup with a correlation id, both in the
// context and in the logger it carries.
func withLookupID(ctx context.Context, logger zerolog.Logger) (context.Context, zerolog.Logger) {
	lookupID := uuid.New().String()
	ctx = context.WithValue(ctx, LookupIDKey, lookupID)

	loggerWithID := logger.With().Str("lookup_id", lookupID).Logger()
	return loggerWithID.WithContext(ctx), loggerWithID
}

func GetLookupID(ctx context.Context) string {
	if id, ok := ctx.Value(LookupIDKey).(string); ok {
		return id
	}
	return ""
}
