package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"vehicle-rental-agency/internal/api/grpc/interceptor"
	"vehicle-rental-agency/internal/logger"
)

// AgencyServiceName is the health-checked service name. The empty name
// reports overall server health and tracks it.
const AgencyServiceName = "vehicle.rental.Agency"

// HealthCheck reports whether the agency's store can serve requests
type HealthCheck func(ctx context.Context) error

// HealthServer exposes grpc.health.v1.Health and reflection
type HealthServer struct {
	server *grpc.Server
	health *health.Server
}

func NewHealthServer() *HealthServer {
	s := grpc.NewServer(
		grpc.UnaryInterceptor(interceptor.Logging()),
	)
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)

	// Register reflection service for grpcurl
	reflection.Register(s)

	hs := &HealthServer{server: s, health: h}
	hs.SetServing(false)
	return hs
}

// SetServing flips the status of both the overall server and the agency service
func (hs *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	hs.health.SetServingStatus("", status)
	hs.health.SetServingStatus(AgencyServiceName, status)
}

// Monitor runs check every interval and updates the serving status until
// ctx is done. The first check runs immediately.
func (hs *HealthServer) Monitor(ctx context.Context, interval time.Duration, check HealthCheck) {
	runCheck := func() {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		if err := check(checkCtx); err != nil {
			logger.Warn("Store health check failed", "error", err)
			hs.SetServing(false)
			return
		}
		hs.SetServing(true)
	}

	runCheck()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCheck()
		}
	}
}

// Serve blocks serving gRPC on lis
func (hs *HealthServer) Serve(lis net.Listener) error {
	logger.Info("gRPC health server listening", "address", lis.Addr().String())
	return hs.server.Serve(lis)
}

// Shutdown reports NOT_SERVING to watchers and stops the server gracefully
func (hs *HealthServer) Shutdown() {
	hs.health.Shutdown()
	hs.server.GracefulStop()
}
