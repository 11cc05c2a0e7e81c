// Package server exposes the resolver over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"atom-nlu/internal/common/config"
	"atom-nlu/internal/common/logger"
	"atom-nlu/internal/nlu/resolver"
	"atom-nlu/internal/nlu/stats"
	"atom-nlu/internal/nlu/training"
)

type Server struct {
	httpServer *http.Server
	resolver   *resolver.Service
	training   *training.Store
	recorder   *stats.Recorder
	logger     logger.Logger
}

func New(cfg config.ServerConfig, svc *resolver.Service, store *training.Store, recorder *stats.Recorder, log logger.Logger) *Server {
	s := &Server{
		resolver: svc,
		training: store,
		recorder: recorder,
		logger:   log.WithFields(map[string]interface{}{"component": "server"}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/nlu/resolve", s.handleResolve)
	mux.HandleFunc("POST /api/nlu/train", s.handleTrain)
	mux.HandleFunc("POST /api/nlu/retrain", s.handleRetrain)
	mux.HandleFunc("GET /api/nlu/metrics", s.handleMetrics)
	mux.HandleFunc("POST /api/nlu/metrics/reset", s.handleMetricsReset)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.withRequestID(mux),
		ReadTimeout:  msOrDefault(cfg.ReadTimeout, 10*time.Second),
		WriteTimeout: msOrDefault(cfg.WriteTimeout, 30*time.Second),
	}
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"address": s.httpServer.Addr,
	})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// withRequestID tags every request with an id for log correlation.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type requestIDKey struct{}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

func msOrDefault(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
