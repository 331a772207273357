// Package grpc hosts the gRPC transport surface: health checking and
// reflection today, with the PlannerService contract specified in
// planner.proto for a generated service once codegen is wired into the
// build.
package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/osamamer/trucking-partner/internal/platform/logger"
)

// LoggingInterceptor logs every unary RPC's method, duration, and
// outcome.
func LoggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)

		if err != nil {
			log.Errorw("grpc request failed", "method", info.FullMethod, "duration_ms", duration.Milliseconds(), "error", err)
		} else {
			log.Infow("grpc request completed", "method", info.FullMethod, "duration_ms", duration.Milliseconds())
		}
		return resp, err
	}
}

// RecoveryInterceptor converts a panicking handler into a codes.Internal
// error instead of crashing the server.
func RecoveryInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("panic recovered in grpc handler", "method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
				err = status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}
