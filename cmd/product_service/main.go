// Package main runs the product catalog HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/abgdnv/product-management/internal/config"
	"github.com/abgdnv/product-management/internal/product/app"
	"github.com/abgdnv/product-management/internal/product/store"
	"github.com/abgdnv/product-management/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/product-management/pkg/config"
	"github.com/abgdnv/product-management/pkg/config/configloader"
	"github.com/abgdnv/product-management/pkg/telemetry"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads the configuration, opens the store and serves HTTP, gRPC health and pprof until ctx is done.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](app.ServiceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, app.ServiceName, cfg.Telemetry)
	if err != nil {
		logger.Error("error creating tracer provider", slog.Any("error", err))
		return err
	}

	var metrics *telemetry.Metrics
	if cfg.Telemetry.Metrics.Enabled {
		if metrics, err = telemetry.NewMeterProvider(app.ServiceName); err != nil {
			logger.Error("error creating meter provider", slog.Any("error", err))
			return err
		}
	}

	productStore, closeStore, err := setupStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	deps := app.SetupDependencies(productStore, logger)
	if metrics != nil {
		deps.MetricsHandler = metrics.Handler
	}
	httpServer := app.SetupHttpServer(deps, cfg)
	grpcServer, grpcHealth := app.SetupGrpcServer(cfg.GRPC.ReflectionEnabled)
	healthWatcher := app.NewHealthWatcher(productStore, grpcHealth, cfg.Health.Interval, cfg.Health.Timeout, logger)
	pprofServer := &http.Server{
		Addr:              cfg.PProf.Addr,
		ReadHeaderTimeout: cfg.HTTPServer.Timeout.ReadHeader,
	}

	g, gCtx := errgroup.WithContext(ctx)

	serveHTTP(gCtx, g, "HTTP", httpServer, cfg.Shutdown.Timeout, logger)
	serveGRPC(gCtx, g, ":"+cfg.GRPC.Port, grpcServer, grpcHealth, cfg.Shutdown.Timeout, logger)
	if cfg.PProf.Enabled {
		serveHTTP(gCtx, g, "pprof", pprofServer, cfg.Shutdown.Timeout, logger)
	}

	// Keep the gRPC health status in sync with the store
	g.Go(func() error {
		return healthWatcher.Run(gCtx)
	})

	// gracefully shutdown telemetry providers
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down telemetry providers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown tracer provider: %w", err)
		}
		if metrics != nil {
			if err := metrics.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shutdown meter provider: %w", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// setupStore opens the configured storage backend and returns it with its cleanup function.
func setupStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.ProductStore, func(), error) {
	if cfg.Database.Driver == pkgconfig.DriverMemory {
		logger.Warn("Using in-memory storage, data will not survive a restart")
		return store.NewInMemoryStore(), func() {}, nil
	}

	if cfg.Database.Migrations != "" {
		if err := bootstrap.RunMigrations(cfg.Database.URL, cfg.Database.Migrations); err != nil {
			return nil, nil, err
		}
		logger.Info("Database migrations applied", slog.String("path", cfg.Database.Migrations))
	}

	dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	logger.Info("Successfully connected to the database!")
	return store.NewPgStore(dbPool), dbPool.Close, nil
}

// serveHTTP runs srv in g and shuts it down gracefully once ctx is done.
func serveHTTP(ctx context.Context, g *errgroup.Group, name string, srv *http.Server, timeout time.Duration, logger *slog.Logger) {
	g.Go(func() error {
		logger.Info(name+" server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server failed: %w", name, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down " + name + " server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// serveGRPC runs srv on addr in g. On shutdown the health status flips to NOT_SERVING first,
// then the server drains within timeout before being stopped forcibly.
func serveGRPC(ctx context.Context, g *errgroup.Group, addr string, srv *grpc.Server, hs *health.Server, timeout time.Duration, logger *slog.Logger) {
	g.Go(func() error {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC port: %w", err)
		}
		logger.Info("gRPC server listening", slog.String("addr", addr))
		return srv.Serve(lis)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server...")
		hs.Shutdown()
		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
			logger.Info("gRPC server stopped gracefully.")
			return nil
		case <-time.After(timeout):
			logger.Warn("gRPC server graceful stop timed out. Forcing stop.")
			srv.Stop()
			return fmt.Errorf("grpc server graceful stop timed out")
		}
	})
}
