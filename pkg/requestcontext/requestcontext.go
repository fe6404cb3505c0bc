// Package requestcontext provides request-scoped metadata: the request ID and
// a single "now" timestamp captured at the start of the request. All
// time-sensitive core operations (validation, expiry, replay checks) read the
// clock from context so the engine stays deterministic and testable.
package requestcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKeyRequestID struct{}
type contextKeyRequestTime struct{}

// Middleware captures the request ID and the current time at the start of the
// request and stores both in the context. If the client provides an
// X-Request-ID header it is reused; otherwise a new UUID is generated.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), contextKeyRequestID{}, requestID)
		ctx = context.WithValue(ctx, contextKeyRequestTime{}, time.Now())
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID retrieves the request ID from the context, or "" when absent.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyRequestID{}).(string); ok {
		return id
	}
	return ""
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for non-HTTP contexts (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKeyRequestTime{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Used by service unit tests
// that don't run the HTTP middleware chain, and by batch tooling that needs a
// consistent time across one run.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyRequestTime{}, t)
}

// WithRequestID injects a request ID into a context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, id)
}
