// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets the values; services and stores read them. Keeping this
// package free of net/http lets the pipeline core propagate the correlation
// identifier into storage and event-publish calls without importing transport
// code.
//
// Usage in services (read values):
//
//	correlationID := requestcontext.CorrelationID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithCorrelationID(ctx, "corr-123")
package requestcontext

import (
	"context"
	"time"
)

type (
	correlationIDKey struct{}
	principalKey     struct{}
	requestTimeKey   struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyCorrelationID = correlationIDKey{}
	ContextKeyPrincipal     = principalKey{}
	ContextKeyRequestTime   = requestTimeKey{}
)

// CorrelationID retrieves the request correlation identifier from the context.
// Returns "" if not set.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyCorrelationID).(string); ok {
		return id
	}
	return ""
}

// WithCorrelationID injects a correlation identifier into the context. The
// identifier must be propagated unchanged into storage and event-publish
// calls.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyCorrelationID, id)
}

// Principal retrieves the acting principal (the identity the excluded auth
// layer resolved) from the context. Returns "" if not set.
func Principal(ctx context.Context) string {
	if p, ok := ctx.Value(ContextKeyPrincipal).(string); ok {
		return p
	}
	return ""
}

// WithPrincipal injects the acting principal into the context.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, principal)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts such as ingestion cycles and tests.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests and for keeping one consistent timestamp across a batch ingestion
// cycle.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
