package shared

import (
	"context"
	"time"
)

// Actor is the request-scoped identity established by the request gate.
type Actor struct {
	ID       int64
	Username string
	FullName string
	Email    string
	Role     string
}

// SessionInfo mirrors the persisted session backing the current request.
type SessionInfo struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
}

type actorContextKey struct{}

type sessionContextKey struct{}

// ContextWithActor stores the authenticated actor in context.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor from context, nil when anonymous.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*Actor)
	return actor
}

// ContextWithSession stores the resolved session in context.
func ContextWithSession(ctx context.Context, sess *SessionInfo) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *SessionInfo {
	sess, _ := ctx.Value(sessionContextKey{}).(*SessionInfo)
	return sess
}
