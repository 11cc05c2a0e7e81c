package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"atom-nlu/internal/common/config"
	"atom-nlu/internal/common/database"
	"atom-nlu/internal/common/logger"
	"atom-nlu/internal/common/observability"
	"atom-nlu/internal/nlu/cache"
	"atom-nlu/internal/nlu/catalog"
	"atom-nlu/internal/nlu/crossplatform"
	"atom-nlu/internal/nlu/generative"
	"atom-nlu/internal/nlu/resolver"
	"atom-nlu/internal/nlu/stats"
	"atom-nlu/internal/nlu/training"
	"atom-nlu/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting intent service", map[string]interface{}{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	responseCache := buildCache(ctx, cfg, log)

	cat := catalog.Load(cfg.Catalog.Path, log)
	log.Info("intent catalog ready", map[string]interface{}{"intents": cat.Len()})

	mapper := crossplatform.NewDefaultMapper()

	classifier, err := generative.NewHTTPClassifier(generative.Config{
		BaseURL:    cfg.Generative.BaseURL,
		APIKey:     cfg.Generative.APIKey,
		Timeout:    config.GetDuration(cfg.Generative.Timeout),
		MaxRetries: cfg.Generative.MaxRetries,
	}, log)
	if err != nil {
		log.Error("failed to build generative classifier", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	recorder := stats.NewRecorder()
	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	svc := resolver.NewService(cat, mapper, classifier, responseCache, recorder, obs, resolver.Thresholds{
		Rule:          cfg.Engine.RuleThreshold,
		CrossPlatform: cfg.Engine.CrossPlatformThreshold,
	}, log)

	store := training.NewStore(cfg.Training.LogPath, cat, log)
	if result, err := store.Retrain(ctx); err != nil {
		log.Warn("training log replay failed", map[string]interface{}{"error": err.Error()})
	} else if result.TrainedCount > 0 {
		log.Info("training log replayed at startup", map[string]interface{}{
			"applied": result.TrainedCount,
			"errors":  len(result.Errors),
		})
	}

	srv := server.New(cfg.Server, svc, store, recorder, log)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received", nil)
	case err := <-errCh:
		log.Error("http server failed", map[string]interface{}{"error": err.Error()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	log.Info("intent service stopped", nil)
}

// buildCache wires the configured cache backend, degrading to the in-memory
// backend when redis is unreachable at startup.
func buildCache(ctx context.Context, cfg *config.Config, log logger.Logger) cache.Cache {
	ttl := config.GetDuration(cfg.Cache.TTL)

	if cfg.Cache.Backend == "redis" {
		client, err := database.NewRedis(cfg.Database.Redis)
		if err == nil {
			if err = client.Ping(ctx); err == nil {
				log.Info("redis response cache connected", map[string]interface{}{
					"address": cfg.Database.Redis.Addr(),
				})
				return cache.NewRedisCache(client, ttl, log)
			}
		}
		log.Warn("redis unavailable, using in-memory response cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return cache.NewMemoryCache(ttl)
}
