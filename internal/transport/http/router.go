// Package httptransport wires the gateway's HTTP surface: middleware stack,
// attestation routes, health, and metrics.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wagebridge/internal/attestation/handler"
	"wagebridge/internal/attestation/metrics"
	"wagebridge/internal/platform/health"
	"wagebridge/internal/platform/middleware"
	"wagebridge/internal/replay"
	"wagebridge/pkg/requestcontext"
)

// Config carries the dependencies the router needs.
type Config struct {
	Attestations *handler.Handler
	Health       *health.Handler
	ReplayGuard  *replay.Guard
	NonceCache   replay.NonceCache
	Metrics      *metrics.Metrics
	JWTKey       string
	Logger       *slog.Logger
}

// NewRouter wires all public endpoints with middleware. Attestation creation
// sits behind employer auth and the replay guard; reads and downstream
// protocol endpoints are open.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(requestcontext.Middleware)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	// Operational surface, outside auth and replay protection.
	cfg.Health.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireEmployerAuth(cfg.JWTKey, cfg.Logger))
		r.Use(replay.Middleware(cfg.ReplayGuard, cfg.NonceCache, cfg.Metrics, cfg.Logger))
		cfg.Attestations.RegisterProtected(r)
	})
	cfg.Attestations.RegisterPublic(r)

	return r
}
