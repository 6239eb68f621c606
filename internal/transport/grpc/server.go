// grpc — служебный gRPC-сервер ingest-worker: стандартный health-check
// (grpc.health.v1) с интерсепторами и Prometheus-метриками вызовов.
// Прикладного RPC у воркера нет: события приходят через redisstream и /events.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName — имя сервиса в health-check помимо общего "".
const ServiceName = "photo.IngestWorker"

// Options — параметры сервера.
type Options struct {
	Logger     *slog.Logger
	Timeout    time.Duration
	Reflection bool
}

// Server — gRPC-сервер с health-сервисом.
type Server struct {
	srv    *grpc.Server
	health *health.Server
}

// NewServer собирает сервер. Health изначально NOT_SERVING.
func NewServer(opts Options) *Server {
	grpc_prometheus.EnableHandlingTimeHistogram()

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			Recover(opts.Logger),
			UnaryLoggingInterceptor(opts.Logger),
			WithTimeout(opts.Timeout),
			grpc_prometheus.UnaryServerInterceptor,
		),
		grpc.ChainStreamInterceptor(
			grpc_prometheus.StreamServerInterceptor,
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	if opts.Reflection {
		reflection.Register(srv)
	}

	grpc_prometheus.Register(srv)

	s := &Server{srv: srv, health: hs}
	s.SetServing(false)

	return s
}

// SetServing переключает статус health-check.
func (s *Server) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}

	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Serve обслуживает lis до Stop/GracefulStop.
func (s *Server) Serve(lis net.Listener) error {
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("transport/grpc/Serve: %w", err)
	}

	return nil
}

// Shutdown пытается остановиться мягко, по истечении ctx — принудительно.
func (s *Server) Shutdown(ctx context.Context) (forced bool) {
	s.SetServing(false)

	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return false
	case <-ctx.Done():
		s.srv.Stop()
		<-done
		return true
	}
}
