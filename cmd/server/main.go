package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"companymatch/internal/admin"
	"companymatch/internal/events"
	"companymatch/internal/match/cache"
	matchhandler "companymatch/internal/match/handler"
	matchmetrics "companymatch/internal/match/metrics"
	"companymatch/internal/match/ports"
	"companymatch/internal/match/query"
	"companymatch/internal/match/scoring"
	"companymatch/internal/match/service"
	"companymatch/internal/platform/config"
	"companymatch/internal/platform/httpserver"
	"companymatch/internal/platform/logger"
	platformredis "companymatch/internal/platform/redis"
	"companymatch/internal/search"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Matching logic lives in internal/match packages.
func main() {
	cfg := config.FromEnv()
	slogger := logger.New()

	backend, err := newBackend(cfg)
	if err != nil {
		log.Fatalf("search backend: %v", err)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	publisher, err := events.New(cfg.Kafka, slogger)
	if err != nil {
		log.Fatalf("kafka: %v", err)
	}

	weights := scoring.FromEnv(slogger)
	builder := query.New(weights, cfg.PageSize)
	m := matchmetrics.New()

	opts := []service.Option{
		service.WithLogger(slogger),
		service.WithMetrics(m),
		service.WithBatchSize(cfg.BatchSize),
		service.WithResultLimit(cfg.ResultLimit),
	}
	if resultCache := cache.New(redisClient, slogger); resultCache != nil {
		opts = append(opts, service.WithCache(resultCache, cfg.CacheTTL))
	}
	if publisher != nil {
		opts = append(opts, service.WithEvents(publisher))
	}

	matchService, err := service.New(backend, builder, opts...)
	if err != nil {
		log.Fatalf("match service: %v", err)
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)

	matchhandler.New(matchService, slogger).Register(router)

	router.Group(func(r chi.Router) {
		if cfg.AdminJWTSigningKey != "" {
			r.Use(admin.RequireToken(cfg.AdminJWTSigningKey, slogger))
		} else {
			slogger.Warn("admin endpoints are unauthenticated; set ADMIN_JWT_SIGNING_KEY")
		}
		admin.New(backend, slogger).Register(r)
	})

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := backend.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	slogger.Info("starting companymatch server",
		"addr", cfg.Addr,
		"backend", cfg.Backend,
		"cache", redisClient != nil,
		"events", publisher != nil,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}

	publisher.Close()
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

func newBackend(cfg config.Config) (ports.SearchBackend, error) {
	if cfg.Backend == "memory" {
		return search.NewMemoryBackend(cfg.Elasticsearch.Index), nil
	}
	return search.NewESBackend(cfg.Elasticsearch)
}
