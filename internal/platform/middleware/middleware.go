// Package middleware provides the request-scoped plumbing shared by all
// handlers: correlation ids, panic recovery, request logging and timeouts.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"agrotrace/pkg/requestcontext"
)

// CorrelationIDHeader carries the caller's correlation identifier. When
// absent a fresh UUID is assigned; either way the id is propagated unchanged
// through storage and event-publish calls.
const CorrelationIDHeader = "X-Correlation-Id"

// CorrelationID assigns or propagates the request correlation identifier and
// pins the request time.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx := requestcontext.WithCorrelationID(r.Context(), id)
		ctx = requestcontext.WithTime(ctx, time.Now())
		w.Header().Set(CorrelationIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Recovery converts panics into 500 responses instead of dropped
// connections.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic in handler",
						"panic", rec,
						"path", r.URL.Path,
					)
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Logger logs one line per request.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", time.Since(start).Milliseconds(),
				"correlation_id", requestcontext.CorrelationID(r.Context()),
			)
		})
	}
}

// Timeout bounds request handling.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
