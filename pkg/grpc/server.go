package grpc

import (
	"context"
	"fmt"
	"net"

	"github.com/pharmlab/procure/pkg/middleware/logger"
	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// QuotationService is the service name reported to gRPC health checks.
const QuotationService = "procure.quotation"

type Server struct {
	*ggrpc.Server
	health *health.Server
}

func NewServer(ctx context.Context, port int) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	s := newServer()
	go func() {
		logger.Infof(ctx, "gRPC server starting on port %d", port)
		if err := s.Serve(lis); err != nil {
			logger.Errorf(ctx, "gRPC server error: %v", err)
		}
	}()

	return s, nil
}

func newServer() *Server {
	s := ggrpc.NewServer(
		ggrpc.UnaryInterceptor(UnaryAuthInterceptor()),
		ggrpc.StreamInterceptor(StreamAuthInterceptor()),
	)
	reflection.Register(s)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(QuotationService, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	return &Server{Server: s, health: hs}
}

// GracefulStop reports NOT_SERVING before draining.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.Server.GracefulStop()
}
