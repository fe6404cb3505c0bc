package replay

import (
	"log/slog"
	"net/http"
	"time"

	"wagebridge/internal/attestation/metrics"
	dErrors "wagebridge/pkg/domain-errors"
	"wagebridge/pkg/platform/httputil"
	"wagebridge/pkg/requestcontext"
)

// Request headers consumed by the middleware.
const (
	HeaderTimestamp = "X-Request-Timestamp"
	HeaderNonce     = "X-Request-Nonce"
)

// Middleware enforces request freshness on state-changing endpoints.
//
// Every request must carry an RFC 3339 X-Request-Timestamp within the
// guard's window of server time. An optional X-Request-Nonce is claimed in
// the nonce cache for twice the window, so a request captured and replayed
// inside the window is still rejected.
func Middleware(guard *Guard, cache NonceCache, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			serverTime := requestcontext.Now(ctx)

			raw := r.Header.Get(HeaderTimestamp)
			if raw == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeReplayRejected,
					"missing "+HeaderTimestamp+" header"))
				return
			}
			requestTime, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeReplayRejected,
					HeaderTimestamp+" must be RFC 3339"))
				return
			}

			if err := guard.Check(serverTime, requestTime); err != nil {
				logger.Warn("replay guard rejected request",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
					"error", err,
				)
				if m != nil {
					m.IncrementReplayRejected()
				}
				httputil.WriteError(w, err)
				return
			}

			if nonce := r.Header.Get(HeaderNonce); nonce != "" && cache != nil {
				fresh, err := cache.Claim(ctx, nonce, 2*guard.Window())
				if err != nil {
					logger.Error("nonce cache unavailable",
						"request_id", requestcontext.RequestID(ctx),
						"error", err,
					)
					httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal,
						"could not verify request nonce"))
					return
				}
				if !fresh {
					if m != nil {
						m.IncrementReplayRejected()
					}
					httputil.WriteError(w, dErrors.New(dErrors.CodeReplayRejected,
						"request nonce already seen"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
