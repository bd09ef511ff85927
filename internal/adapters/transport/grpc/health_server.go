package grpc

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName is the name clients pass to Health/Check for this service.
const ServiceName = "storefront.auth"

type Checker interface {
	Check(ctx context.Context) error
}

type HealthServer struct {
	healthpb.UnimplementedHealthServer
	checker Checker
	log     *zap.Logger
}

func NewHealthServer(checker Checker, log *zap.Logger) *HealthServer {
	return &HealthServer{checker: checker, log: log}
}

func (h *HealthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	switch req.GetService() {
	case "", ServiceName:
	default:
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}

	if err := h.checker.Check(ctx); err != nil {
		h.log.Warn("grpc health check failed", zap.Error(err))
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
