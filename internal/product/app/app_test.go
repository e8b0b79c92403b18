package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abgdnv/product-management/internal/product/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// flakyStore fails Ping while down is set.
type flakyStore struct {
	*store.InMemoryStore
	down atomic.Bool
}

func (f *flakyStore) Ping(ctx context.Context) error {
	if f.down.Load() {
		return errors.New("storage unreachable")
	}
	return f.InMemoryStore.Ping(ctx)
}

func servingStatus(t *testing.T, hs *health.Server) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := hs.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_SERVICE_UNKNOWN
	}
	return resp.GetStatus()
}

func Test_HealthWatcher(t *testing.T) {
	st := &flakyStore{InMemoryStore: store.NewInMemoryStore()}
	hs := health.NewServer()
	watcher := NewHealthWatcher(st, hs, 10*time.Millisecond, 5*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return servingStatus(t, hs) == grpc_health_v1.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	st.down.Store(true)
	assert.Eventually(t, func() bool {
		return servingStatus(t, hs) == grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("health watcher did not stop")
	}
}

func Test_SetupHttpHandler(t *testing.T) {
	deps := SetupDependencies(store.NewInMemoryStore(), discardLogger())
	deps.MetricsHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	})
	handler := SetupHttpHandler(deps)

	testCases := []struct {
		url          string
		expectedCode int
	}{
		{"/product", http.StatusOK},
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/unknown", http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.url, nil))
			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func Test_SetupGrpcServer(t *testing.T) {
	grpcServer, hs := SetupGrpcServer(false)
	defer grpcServer.Stop()

	require.NotNil(t, hs)
	assert.Contains(t, grpcServer.GetServiceInfo(), "grpc.health.v1.Health")
}
