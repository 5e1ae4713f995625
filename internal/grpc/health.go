package grpc

import (
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"

	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/tracing"
)

// Service names reported by the health server
const (
	ServiceDesktop   = "nexus.desktop"
	ServiceAssistant = "nexus.assistant"
)

// Check reports whether a dependency is able to serve
type Check func() bool

// HealthServer exposes the standard gRPC health protocol for the desktop
// backend and its collaborators
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	logger *zap.Logger

	mu     sync.Mutex
	checks map[string]Check
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewHealthServer creates a health server. Every RPC runs through the
// tracing interceptors.
func NewHealthServer(tracer *tracing.Tracer, logger *zap.Logger) *HealthServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(tracing.GRPCUnaryInterceptor(tracer)),
		grpc.ChainStreamInterceptor(tracing.GRPCStreamInterceptor(tracer)),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    60 * time.Second,
			Timeout: 20 * time.Second,
		}),
		// Matches the client keepalive so "too_many_pings" is never sent
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             30 * time.Second,
			PermitWithoutStream: false,
		}),
		grpc.MaxRecvMsgSize(1024 * 1024),
	}

	hs := health.NewServer()
	server := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(server, hs)

	return &HealthServer{
		server: server,
		health: hs,
		logger: logger,
		checks: make(map[string]Check),
		stop:   make(chan struct{}),
	}
}

// Register adds a named check. Its status is published on the next Refresh.
func (h *HealthServer) Register(service string, check Check) {
	h.mu.Lock()
	h.checks[service] = check
	h.mu.Unlock()
}

// Refresh runs every check and publishes the results. The overall ""
// service serves while the desktop check does.
func (h *HealthServer) Refresh() {
	h.mu.Lock()
	defer h.mu.Unlock()

	overall := true
	for service, check := range h.checks {
		ok := check()
		h.health.SetServingStatus(service, status(ok))
		if service == ServiceDesktop {
			overall = ok
		}
	}
	h.health.SetServingStatus("", status(overall))
}

// Watch refreshes statuses every interval until Stop
func (h *HealthServer) Watch(interval time.Duration) {
	h.Refresh()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				h.Refresh()
			case <-h.stop:
				return
			}
		}
	}()
}

// Serve accepts connections on lis until Stop
func (h *HealthServer) Serve(lis net.Listener) error {
	h.logger.Info("Starting gRPC health server", zap.String("addr", lis.Addr().String()))
	return h.server.Serve(lis)
}

// ListenAndServe listens on addr and serves
func (h *HealthServer) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return h.Serve(lis)
}

// Stop marks every service not serving and drains in-flight RPCs
func (h *HealthServer) Stop() {
	select {
	case <-h.stop:
		return
	default:
		close(h.stop)
	}
	h.wg.Wait()

	h.health.Shutdown()
	h.server.GracefulStop()
	h.logger.Info("gRPC health server stopped")
}

func status(ok bool) healthpb.HealthCheckResponse_ServingStatus {
	if ok {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}
