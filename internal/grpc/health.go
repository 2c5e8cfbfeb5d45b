package grpc

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
)

// ServiceName is the health-check name of the HTTP API
const ServiceName = "gamevault.v1.API"

// Check reports whether a dependency the API needs is reachable
type Check func(ctx context.Context) error

// HealthServer exposes grpc.health.v1 for orchestrators, reflecting database liveness
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	check  Check
	logger *slog.Logger
}

// NewHealthServer creates the gRPC server and registers the health service on it.
// Both the overall status and ServiceName start as NOT_SERVING until the first Refresh.
func NewHealthServer(check Check, logger *slog.Logger) *HealthServer {
	server := grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 10 * time.Second,
		}),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthServer{
		server: server,
		health: healthServer,
		check:  check,
		logger: logger,
	}
}

// Refresh runs the check and publishes the result
func (h *HealthServer) Refresh(ctx context.Context) error {
	status := healthpb.HealthCheckResponse_SERVING
	err := h.check(ctx)
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		h.logger.Warn("⚠️ [gRPC] Health check failed", "error", err)
	}

	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)

	h.logger.Debug("💓 [gRPC] Health status refreshed", "status", status.String())
	return err
}

// Serve accepts connections on lis until Stop is called
func (h *HealthServer) Serve(lis net.Listener) error {
	h.logger.Info("🚀 [gRPC] Health server listening", "addr", lis.Addr().String())
	return h.server.Serve(lis)
}

// Stop marks everything NOT_SERVING and drains open streams
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
	h.logger.Info("🛑 [gRPC] Health server stopped")
}
