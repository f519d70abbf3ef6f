// @title           Product Store API
// @version         1.0
// @description     Inventory and order management with role-based access.
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the token returned by /api/login.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/productstore/store-api/internal/api"
	"github.com/productstore/store-api/internal/api/middleware"
	"github.com/productstore/store-api/internal/core/service"
	"github.com/productstore/store-api/internal/infrastructure/db/mongo"
	"github.com/productstore/store-api/internal/infrastructure/db/redis"
	"github.com/productstore/store-api/internal/infrastructure/http/handlers"
	"github.com/productstore/store-api/internal/pkg/config"
	"github.com/productstore/store-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "store-api",
	})

	ctx := context.Background()

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	authRepo := mongo.NewAuthRepository(db)
	productRepo := mongo.NewProductRepository(db)
	orderRepo := mongo.NewOrderRepository(db)
	if err := mongo.EnsureIndexes(ctx, authRepo, productRepo, orderRepo); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	readiness := map[string]handlers.Pinger{
		"mongo": handlers.PingFunc(func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }),
	}

	// --- Rate limiting (optional, fails open) ---
	var limiter middleware.Limiter
	if cfg.RateLimit.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, auth rate limiting disabled")
		} else {
			defer rdb.Close()
			limiter = redis.NewAttemptLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window)
			readiness["redis"] = redisPinger(rdb)
		}
	}

	// --- Services ---
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, cfg.TokenTTL, log)
	productService := service.NewProductService(productRepo, log)
	orderService := service.NewOrderService(orderRepo, log)

	if cfg.SeedDemo {
		if err := service.NewSeeder(authService, productService, productRepo, log).Seed(ctx); err != nil {
			log.Error().Err(err).Msg("demo seed failed")
		}
	}

	ipExtractor, err := api.IPExtractorFor(cfg.TrustedProxies)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid TRUSTED_PROXIES")
	}

	e := api.NewRouter(api.Deps{
		Auth:        authService,
		Products:    productService,
		Orders:      orderService,
		Limiter:     limiter,
		Readiness:   readiness,
		Logger:      log,
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
		IPExtractor: ipExtractor,
		Registerer:  prometheus.DefaultRegisterer,
		Gatherer:    prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
}

func redisPinger(rdb *goredis.Client) handlers.Pinger {
	return handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
}
