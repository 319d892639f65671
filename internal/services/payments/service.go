package payments

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"golang-adyen-checkout/config"
	"golang-adyen-checkout/internal/middleware"
	"golang-adyen-checkout/internal/services/payments/handler"
	"golang-adyen-checkout/internal/services/payments/providers"
	"golang-adyen-checkout/internal/services/payments/store"
)

// Service owns the router and the connections behind it.
type Service struct {
	Router *gin.Engine
	rdb    *redis.Client
}

// NewService connects the status store, builds the provider and mounts
// every route on a fresh gin engine.
func NewService(ctx context.Context, cfg *config.AppConfig) (*Service, error) {
	return newService(ctx, cfg, NewProvider(cfg))
}

func newService(ctx context.Context, cfg *config.AppConfig, provider providers.PaymentProvider) (*Service, error) {
	svc := &Service{}

	var st store.Store
	switch cfg.Store.Backend {
	case "redis":
		rdb, err := store.Connect(ctx, cfg.Store.RedisURL)
		if err != nil {
			return nil, err
		}
		svc.rdb = rdb
		st = store.NewRedisStore(rdb, cfg.Store.TTL)
	default:
		st = store.NewMemoryStore()
	}
	slog.Info("payment status store ready", "backend", cfg.Store.Backend)

	limit, err := middleware.RateLimiter(cfg.Http.RateLimit, svc.rdb)
	if err != nil {
		svc.Close()
		return nil, fmt.Errorf("configuring rate limiter: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Cors(cfg.Http.CorsOrigins))

	h := handler.NewHandler(provider, st, handler.Options{
		BaseURL:     cfg.Http.BaseURL,
		ClientKey:   cfg.Adyen.ClientKey,
		Environment: cfg.Adyen.Environment,
		Sandbox:     cfg.Adyen.IsSandbox(),
		StaticDir:   cfg.Http.StaticDir,
	})
	h.RegisterRoutes(r, limit)

	svc.Router = r
	return svc, nil
}

func (s *Service) Close() {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Close(); err != nil {
		slog.Warn("closing redis", "error", err)
	}
}
