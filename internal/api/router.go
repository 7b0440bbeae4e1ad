package api

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/container-packer/internal/metrics"
)

// RouterOption configures the behaviour of NewRouter.
type RouterOption func(*routerConfig)

// WithLogging controls whether access logs are emitted.
func WithLogging(enabled bool) RouterOption {
	return func(cfg *routerConfig) {
		cfg.enableLogging = enabled
	}
}

// WithRateLimiter overrides the default request rate limiter (primarily for tests).
func WithRateLimiter(limiter rateLimiter) RouterOption {
	return func(cfg *routerConfig) {
		cfg.rateLimiter = limiter
	}
}

// WithRateLimit configures the token bucket. A non-positive rate or burst
// disables rate limiting.
func WithRateLimit(ratePerSecond float64, burst int) RouterOption {
	return func(cfg *routerConfig) {
		if ratePerSecond <= 0 || burst <= 0 {
			cfg.rateLimiter = nil
			return
		}
		cfg.rateLimiter = newTokenBucketLimiter(ratePerSecond, burst)
	}
}

type routerConfig struct {
	enableLogging bool
	logger        *zap.Logger
	rateLimiter   rateLimiter
}

// NewRouter creates an HTTP router with standard middleware.
func NewRouter(handler *Handler, logger *zap.Logger, opts ...RouterOption) http.Handler {
	cfg := routerConfig{
		enableLogging: true,
		logger:        logger,
		rateLimiter:   newTokenBucketLimiter(25, 50),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /api/health", http.HandlerFunc(handler.handleHealth))
	mux.Handle("GET /api/container", http.HandlerFunc(handler.handleGetContainer))
	mux.Handle("PUT /api/container", http.HandlerFunc(handler.handlePutContainer))
	mux.Handle("GET /api/items", http.HandlerFunc(handler.handleListItems))
	mux.Handle("POST /api/items", http.HandlerFunc(handler.handleCreateItem))
	mux.Handle("POST /api/items/import", http.HandlerFunc(handler.handleImportItems))
	mux.Handle("PUT /api/items/{id}", http.HandlerFunc(handler.handleUpdateItem))
	mux.Handle("DELETE /api/items/{id}", http.HandlerFunc(handler.handleDeleteItem))
	mux.Handle("GET /api/pack", http.HandlerFunc(handler.handleGetPack))
	mux.Handle("POST /api/pack", http.HandlerFunc(handler.handlePostPack))
	if handler.recorder != nil {
		mux.Handle("GET /metrics", handler.recorder.Handler())
	}

	var root http.Handler = mux
	root = metricsMiddleware(handler.recorder, root)
	root = corsMiddleware(root)
	root = recoveryMiddleware(cfg.logger, root)
	if cfg.enableLogging {
		root = loggingMiddleware(cfg.logger, root)
	}
	root = rateLimitMiddleware(cfg.rateLimiter, root)
	root = requestIDMiddleware(root)

	return root
}

// metricsMiddleware records request metrics labelled by the matched route
// pattern so path parameters do not create new series.
func metricsMiddleware(recorder *metrics.Recorder, next http.Handler) http.Handler {
	if recorder == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		recorder.ObserveRequest(r.Method, routeLabel(r), rec.status, time.Since(start))
	})
}

func routeLabel(r *http.Request) string {
	pattern := r.Pattern
	if pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}
