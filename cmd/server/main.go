package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"wagebridge/internal/attestation/handler"
	"wagebridge/internal/attestation/metrics"
	"wagebridge/internal/attestation/service"
	"wagebridge/internal/attestation/store"
	"wagebridge/internal/attestation/tracer"
	"wagebridge/internal/audit"
	"wagebridge/internal/platform/config"
	"wagebridge/internal/platform/database"
	"wagebridge/internal/platform/health"
	"wagebridge/internal/platform/httpserver"
	"wagebridge/internal/platform/kafka/producer"
	"wagebridge/internal/platform/logger"
	platformredis "wagebridge/internal/platform/redis"
	"wagebridge/internal/replay"
	"wagebridge/internal/signer"
	httptransport "wagebridge/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing wagebridge",
		"addr", cfg.Addr,
		"replay_window", cfg.ReplayWindow.String(),
	)

	healthHandler := health.New(os.Getenv("ENVIRONMENT"))

	// Storage: Postgres when configured, in-memory otherwise. The in-memory
	// store also serves as the nullifier ledger unless Redis takes over.
	memory := store.NewInMemory()
	var (
		attStore service.Store           = memory
		ledger   service.NullifierLedger = memory
	)
	pool, err := poolFromConfig(cfg)
	if err != nil {
		log.Error("postgres unavailable", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		pg := store.NewPostgres(pool.DB())
		attStore = pg
		ledger = pg
		healthHandler.RegisterCheck("postgres", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
		defer pool.Close()
	}

	// Redis, when configured, backs the nullifier ledger and the replay
	// nonce cache so both survive restarts and span instances.
	var nonceCache replay.NonceCache = replay.NewMemoryNonceCache()
	redisClient, err := platformredis.New(cfg.RedisAddr)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		ledger = store.NewRedisNullifierLedger(redisClient.Client)
		nonceCache = replay.NewRedisNonceCache(redisClient.Client)
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
		defer redisClient.Close()
	}

	// Audit events flow to Kafka when brokers are configured.
	var auditor audit.Publisher = audit.NewNoop()
	if cfg.KafkaBrokers != "" {
		kafkaProducer, err := producer.New(producer.Config{
			Brokers:         cfg.KafkaBrokers,
			Retries:         3,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		kafkaPublisher := audit.NewKafka(kafkaProducer, cfg.AuditTopic, log)
		auditor = kafkaPublisher
		healthHandler.RegisterCheck("kafka", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if !kafkaProducer.Healthy(ctx) {
				return errors.New("kafka brokers unreachable")
			}
			return nil
		})
		defer kafkaPublisher.Close() //nolint:errcheck // flushes on shutdown
	}

	m := metrics.New()
	svc := service.NewService(
		attStore,
		ledger,
		signer.NewLocal(),
		service.WithLogger(log),
		service.WithAuditor(auditor),
		service.WithMetrics(m),
		service.WithTracer(tracer.NewOTel()),
	)

	router := httptransport.NewRouter(httptransport.Config{
		Attestations: handler.New(svc, log),
		Health:       healthHandler,
		ReplayGuard:  replay.NewGuard(cfg.ReplayWindow),
		NonceCache:   nonceCache,
		Metrics:      m,
		JWTKey:       cfg.JWTSigningKey,
		Logger:       log,
	})

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func poolFromConfig(cfg config.Server) (*database.Pool, error) {
	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.PostgresURL
	return database.New(dbCfg)
}
