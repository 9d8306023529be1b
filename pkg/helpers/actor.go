package helpers

import "context"

type actorKey struct{}

// WithActor records the authenticated user id in the request context so the
// persistence layer can stamp audit fields.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom returns the authenticated actor id, or "" when the request is
// anonymous.
func ActorFrom(ctx context.Context) string {
	v, _ := ctx.Value(actorKey{}).(string)
	return v
}
