package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/abgdnv/product-management/internal/product/store"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// HealthWatcher mirrors storage reachability into the gRPC health status.
type HealthWatcher struct {
	store    store.ProductStore
	health   *health.Server
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewHealthWatcher(st store.ProductStore, hs *health.Server, interval, timeout time.Duration, logger *slog.Logger) *HealthWatcher {
	return &HealthWatcher{
		store:    st,
		health:   hs,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("component", "health"),
	}
}

// Run checks the storage immediately and then every interval until ctx is done.
func (w *HealthWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *HealthWatcher) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err := w.store.Ping(pingCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Warn("Storage ping failed", "error", err)
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	w.health.SetServingStatus("", status)
	w.health.SetServingStatus(ServiceName, status)
}
