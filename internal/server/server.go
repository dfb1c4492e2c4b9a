package server

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name consumers watch for member group
// availability.
const ServiceName = "zonegrouper.MemberGroups"

// Server exposes the gRPC health protocol so that placement consumers can
// watch whether a valid member group assignment exists.
type Server struct {
	cfg    *ServerConfig
	server *grpc.Server
	health *health.Server
}

func NewServer(opts ...ServerOption) *Server {
	var cfg ServerConfig
	cfg.Options(opts...)
	cfg.Default()

	s := &Server{
		cfg:    &cfg,
		health: health.NewServer(),
	}
	s.server = grpc.NewServer(grpc.UnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(s.server, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return s
}

// SetServing updates the health status reported for ServiceName.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, status)
}

// Run listens on the configured endpoint until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listener, err := s.setupListener()
	if err != nil {
		return fmt.Errorf("failed to setup listener: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Infow("gRPC server listening",
			"address", s.cfg.EndPoint,
		)
		errCh <- s.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		s.cfg.Logger.Info("Gracefully shutting down gRPC server")
		s.health.Shutdown()
		s.shutdown()
		return nil
	case err := <-errCh:
		return err
	}
}

// Serve accepts connections on lis until the server is stopped.
func (s *Server) Serve(lis net.Listener) error {
	if err := s.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("gRPC server error: %w", err)
	}
	return nil
}

// Stop closes all connections and pending streams immediately.
func (s *Server) Stop() {
	s.server.Stop()
}

// shutdown waits for in-flight calls up to the shutdown timeout, then forces
// open health watch streams closed.
func (s *Server) shutdown() {
	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(s.cfg.ShutdownTimeout):
		s.cfg.Logger.Warnw("Graceful shutdown timed out, stopping gRPC server",
			"timeout", s.cfg.ShutdownTimeout,
		)
		s.Stop()
		<-stopped
	}
}

func (s *Server) setupListener() (net.Listener, error) {
	switch {
	case strings.HasPrefix(s.cfg.EndPoint, "unix://"):
		address := strings.TrimPrefix(s.cfg.EndPoint, "unix://")
		if err := os.Remove(address); err != nil && !os.IsNotExist(err) {
			s.cfg.Logger.Warnw("Failed to remove existing socket",
				"address", address,
				"error", err,
			)
		}

		if err := os.MkdirAll(filepath.Dir(address), 0755); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}

		listener, err := net.Listen("unix", address)
		if err != nil {
			return nil, fmt.Errorf("failed to listen on unix socket: %w", err)
		}
		return listener, nil
	case strings.HasPrefix(s.cfg.EndPoint, "tcp://"):
		listener, err := net.Listen("tcp", strings.TrimPrefix(s.cfg.EndPoint, "tcp://"))
		if err != nil {
			return nil, fmt.Errorf("failed to listen on tcp address: %w", err)
		}
		return listener, nil
	}

	return nil, fmt.Errorf("unsupported endpoint format: %s", s.cfg.EndPoint)
}

func (s *Server) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	s.cfg.Logger.Debugw("gRPC request received",
		"method", info.FullMethod,
	)

	resp, err := handler(ctx, req)
	if err != nil {
		s.cfg.Logger.Warnw("gRPC request failed",
			"method", info.FullMethod,
			"error", err,
		)
	}
	return resp, err
}

type ServerConfig struct {
	EndPoint        string
	Logger          *zap.SugaredLogger
	ShutdownTimeout time.Duration
}

func (c *ServerConfig) Options(opts ...ServerOption) {
	for _, opt := range opts {
		opt.ConfigureServer(c)
	}
}

func (c *ServerConfig) Default() {
	if c.Logger == nil {
		c.Logger = zap.NewNop().Sugar()
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

type ServerOption interface {
	ConfigureServer(*ServerConfig)
}

type WithLogger struct {
	Logger *zap.SugaredLogger
}

func (w WithLogger) ConfigureServer(c *ServerConfig) {
	c.Logger = w.Logger
}

type WithShutdownTimeout time.Duration

func (w WithShutdownTimeout) ConfigureServer(c *ServerConfig) {
	c.ShutdownTimeout = time.Duration(w)
}

type WithEndPoint string

func (w WithEndPoint) ConfigureServer(c *ServerConfig) {
	c.EndPoint = string(w)
}
