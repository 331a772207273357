package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/osamamer/trucking-partner/internal/platform/logger"
)

// Server wraps a *grpc.Server with the health and reflection services
// every service in this stack registers.
type Server struct {
	*grpc.Server
	health      *health.Server
	serviceName string
}

// NewServer builds a gRPC server with logging/recovery interceptors and
// a SERVING health check, reflecting in non-production environments.
func NewServer(serviceName, environment string, log *logger.Logger) *Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(log),
			RecoveryInterceptor(log),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if environment != "production" {
		reflection.Register(grpcServer)
	}

	return &Server{Server: grpcServer, health: healthServer, serviceName: serviceName}
}

// SetNotServing flips the health status ahead of a graceful shutdown.
func (s *Server) SetNotServing() {
	s.health.SetServingStatus(s.serviceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
}
