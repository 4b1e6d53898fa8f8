package grpc

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/iot"
	"github.com/samseatt/vitaledge-pi-iot/pkg/transmit"
)

// AgentService is the health service name reported next to the overall "" entry.
const AgentService = "vitaledge.Agent"

// IOTServer exposes the agent's liveness over grpc.health.v1. The agent is SERVING
// while its last cycle managed to buffer the captured reading.
type IOTServer struct {
	Iot              *iot.IOT
	RateLimiterStore *transmit.RateLimiterStore

	health *health.Server
}

func NewIOTServer(iotCore *iot.IOT, limiters *transmit.RateLimiterStore) *IOTServer {
	s := &IOTServer{
		Iot:              iotCore,
		RateLimiterStore: limiters,
		health:           health.NewServer(),
	}
	s.setServing(healthpb.HealthCheckResponse_NOT_SERVING)
	iotCore.OnCycle(s.ObserveCycle)
	return s
}

func (i *IOTServer) ObserveCycle(report iot.CycleReport) {
	if report.Persisted {
		i.setServing(healthpb.HealthCheckResponse_SERVING)
		return
	}
	common.GetLoggerWith(common.LoggerNameGrpcServer).Warn("Reporting NOT_SERVING, last cycle did not persist",
		zap.String("cycle_id", report.CycleID))
	i.setServing(healthpb.HealthCheckResponse_NOT_SERVING)
}

func (i *IOTServer) setServing(status healthpb.HealthCheckResponse_ServingStatus) {
	i.health.SetServingStatus("", status)
	i.health.SetServingStatus(AgentService, status)
}

func (i *IOTServer) CheckPeerLimiter(peerAddr string) bool {
	return i.RateLimiterStore.Allow(peerAddr)
}

func (i *IOTServer) NewServer() *grpc.Server {
	s := grpc.NewServer(grpc.UnaryInterceptor(i.CreateRateLimitInterceptor([]string{
		healthpb.Health_Check_FullMethodName,
	})))
	healthpb.RegisterHealthServer(s, i.health)
	return s
}

// Serve blocks until ctx is done, then stops the server gracefully.
func (i *IOTServer) Serve(ctx context.Context, listener net.Listener) error {
	logger := common.GetLoggerWith(common.LoggerNameGrpcServer)
	s := i.NewServer()

	go func() {
		<-ctx.Done()
		i.health.Shutdown()
		s.GracefulStop()
	}()

	logger.Info("start gRPC server on " + listener.Addr().String())
	return s.Serve(listener)
}
