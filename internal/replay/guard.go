// Package replay protects attestation creation against replayed requests.
//
// A request must carry its own timestamp; the guard rejects any request
// whose timestamp drifts more than the configured window from server time,
// in either direction. An optional client nonce closes the remaining gap:
// within the window a replayed nonce is caught by the nonce cache.
package replay

import (
	"fmt"
	"time"

	dErrors "wagebridge/pkg/domain-errors"
)

// DefaultWindow is the drift tolerated between request and server time.
const DefaultWindow = 5 * time.Minute

// Guard rejects requests whose timestamp falls outside the freshness window.
type Guard struct {
	window time.Duration
}

// NewGuard creates a replay guard with the given window. A non-positive
// window falls back to DefaultWindow.
func NewGuard(window time.Duration) *Guard {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Guard{window: window}
}

// Window returns the configured freshness window.
func (g *Guard) Window() time.Duration {
	return g.window
}

// Check validates the request timestamp against server time. Drift of
// exactly the window is accepted; anything beyond it, past or future, is
// rejected. Future drift is treated the same as past drift since clock skew
// is indistinguishable from replay of a captured request.
func (g *Guard) Check(serverTime, requestTime time.Time) error {
	drift := serverTime.Sub(requestTime)
	if drift < 0 {
		drift = -drift
	}
	if drift > g.window {
		return dErrors.New(dErrors.CodeReplayRejected, fmt.Sprintf(
			"request timestamp outside freshness window: server=%s request=%s window=%s",
			serverTime.UTC().Format(time.RFC3339),
			requestTime.UTC().Format(time.RFC3339),
			g.window,
		))
	}
	return nil
}
