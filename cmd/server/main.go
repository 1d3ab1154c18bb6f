package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelgate/internal/audit"
	identityservice "travelgate/internal/identity/service"
	"travelgate/internal/operations"
	"travelgate/internal/platform/config"
	"travelgate/internal/platform/httpserver"
	"travelgate/internal/platform/logger"
	"travelgate/internal/platform/metrics"
	"travelgate/internal/platform/redis"
	"travelgate/internal/session"
	httptransport "travelgate/internal/transport/http"
	travelservice "travelgate/internal/travel/service"
	"travelgate/internal/travel/store"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the services packages.
func main() {
	log := logger.New(os.Stdout, slog.LevelInfo)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	sm := session.NewManager(cfg.BaseURL, session.Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Username:     cfg.Username,
		Password:     cfg.Password,
		RefreshToken: cfg.RefreshToken,
	},
		session.WithLogger(log),
		session.WithMetrics(m),
		session.WithTimeout(cfg.RequestTimeout),
		session.WithRateLimit(cfg.VendorRateLimit),
	)

	var cache store.Cache = store.NewMemoryCache()
	if redisClient != nil {
		cache = store.NewRedisCache(redisClient)
	}

	auditStore := audit.NewMemoryStore(0)
	auditPublisher := audit.NewPublisher(auditStore, audit.WithLogger(log))

	identitySvc := identityservice.NewService(sm, cfg.CompanyID,
		identityservice.WithLogger(log),
		identityservice.WithMetrics(m),
	)
	travelSvc := travelservice.NewService(sm,
		travelservice.WithLogger(log),
		travelservice.WithMetrics(m),
		travelservice.WithCache(cache, cfg.ProfileCacheTTL),
		travelservice.WithAudit(auditPublisher),
	)

	dispatcher := operations.NewDispatcher(identitySvc, travelSvc,
		operations.WithLogger(log),
		operations.WithMetrics(m),
	)

	handler := httptransport.NewHandler(dispatcher,
		httptransport.WithLogger(log),
		httptransport.WithAuditStore(auditStore),
	)

	var health httptransport.HealthCheck
	if redisClient != nil {
		health = redisClient.Health
	}
	router := httptransport.NewRouter(handler, log, cfg.RequestTimeout, health)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting travelgate", "addr", cfg.Addr, "base_url", cfg.BaseURL, "redis", redisClient != nil)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
