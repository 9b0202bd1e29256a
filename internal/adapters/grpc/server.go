package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/quentinrf/sleep-service/pkg/pb"
)

// NewServer creates a gRPC server serving handler, the standard health
// service and reflection (for grpcurl).
func NewServer(handler pb.SleepServiceServer, opts ...grpc.ServerOption) *grpc.Server {
	srv := grpc.NewServer(opts...)
	pb.RegisterSleepServiceServer(srv, handler)

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)

	reflection.Register(srv)
	return srv
}
