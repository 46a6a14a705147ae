// Package grpc carries shared gRPC serving helpers.
package grpc

import (
	"fmt"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// NewHealthServer builds a gRPC server exposing only the standard health
// service, marking the empty service name and each named service SERVING.
// Orchestrators probe this endpoint; no application RPCs are registered.
func NewHealthServer(services ...string) *gogrpc.Server {
	grpcServer := gogrpc.NewServer(gogrpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	for _, service := range services {
		healthServer.SetServingStatus(service, grpc_health_v1.HealthCheckResponse_SERVING)
	}
	return grpcServer
}

// ServeHealth listens on the given port and serves the health service until
// the server is stopped. It returns the bound listener address via logf.
func ServeHealth(port int, logf func(string, ...any), services ...string) (*gogrpc.Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen on health port %d: %w", port, err)
	}
	grpcServer := NewHealthServer(services...)
	go func() {
		if serveErr := grpcServer.Serve(listener); serveErr != nil && logf != nil {
			logf("health server stopped: %v", serveErr)
		}
	}()
	if logf != nil {
		logf("gRPC health listening on %s", listener.Addr())
	}
	return grpcServer, nil
}
