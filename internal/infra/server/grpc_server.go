package server

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/Miraines/storefront-auth/internal/adapters/transport/grpc/middleware"
	"github.com/Miraines/storefront-auth/internal/infra/config"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const shutdownTimeout = 5 * time.Second

// NewGRPCServer builds the gRPC server with the interceptor chain, health
// service, metrics and reflection registered.
func NewGRPCServer(cfg *config.Config, health healthpb.HealthServer, logger *zap.Logger) (*grpc.Server, error) {
	opts := []grpc.ServerOption{
		grpc.UnaryInterceptor(middleware.ChainUnaryServer(logger, cfg.RateLimitRPS, cfg.RateLimitBurst)),
	}
	if cfg.TLSEnabled() {
		creds, err := credentials.NewServerTLSFromFile(cfg.HTTPSCertFile, cfg.HTTPSKeyFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, grpc.Creds(creds))
	}

	srv := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(srv, health)
	grpc_prometheus.Register(srv)
	grpc_prometheus.EnableHandlingTimeHistogram()
	reflection.Register(srv)
	return srv, nil
}

// StartGRPCServer serves until ctx is cancelled, then stops gracefully,
// forcing the stop after shutdownTimeout.
func StartGRPCServer(ctx context.Context, cfg *config.Config, health healthpb.HealthServer, logger *zap.Logger) error {
	lis, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return err
	}
	srv, err := NewGRPCServer(cfg, health, logger)
	if err != nil {
		_ = lis.Close()
		return err
	}
	return serveGRPC(ctx, srv, lis, logger)
}

func serveGRPC(ctx context.Context, srv *grpc.Server, lis net.Listener, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("stopping gRPC server")

	done := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(done)
	}()

	select {
	case <-time.After(shutdownTimeout):
		srv.Stop()
	case <-done:
	}
	logger.Info("gRPC server stopped")
	return nil
}
