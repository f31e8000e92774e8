package auth

import "context"

type contextKey int

const actorKey contextKey = iota

// WithActor returns a new context with the given actor attached.
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFromContext retrieves the actor from the context.
// Returns nil if no actor is present.
func ActorFromContext(ctx context.Context) *Actor {
	a, _ := ctx.Value(actorKey).(*Actor)
	return a
}

// SubjectFromContext retrieves the actor subject from the context.
// Returns empty string if no actor is present.
func SubjectFromContext(ctx context.Context) string {
	a := ActorFromContext(ctx)
	if a == nil {
		return ""
	}
	return a.Subject
}
