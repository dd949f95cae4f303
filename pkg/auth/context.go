package auth

import (
	"context"

	"catalog-backend/domain/catalog"
	apperrors "catalog-backend/pkg/errors"
)

type contextKey string

const actorKey contextKey = "actor"

// WithActor attaches the authenticated actor to the context.
func WithActor(ctx context.Context, actor catalog.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext extracts the authenticated actor from the context.
func ActorFromContext(ctx context.Context) (catalog.Actor, error) {
	actor, ok := ctx.Value(actorKey).(catalog.Actor)
	if !ok {
		return catalog.Actor{}, apperrors.NewUnauthorizedError("no authenticated actor on request")
	}
	return actor, nil
}
