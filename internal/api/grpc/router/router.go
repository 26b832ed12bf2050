package router

import (
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/daytrack-server/internal/api/grpc/middleware"
	"github.com/dtroode/daytrack-server/internal/logger"
)

// Router builds the gRPC server exposing the health service.
type Router struct {
	healthServer healthpb.HealthServer
	logger       *logger.Logger
}

// New creates new gRPC Router instance.
func New(healthServer healthpb.HealthServer, logger *logger.Logger) *Router {
	return &Router{
		healthServer: healthServer,
		logger:       logger,
	}
}

// Register returns a gRPC server with logging and panic recovery on every
// unary call.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			middleware.Recovery(r.logger),
		),
	)
	healthpb.RegisterHealthServer(s, r.healthServer)
	reflection.Register(s)

	return s
}
