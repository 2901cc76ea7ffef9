// Package service hosts the sidecar HTTP servers of the op-bdd render
// service: health checks, prometheus metrics and rendered report files.
package service

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/ethereum-optimism/infra/op-bdd/metrics"
	"github.com/ethereum/go-ethereum/log"
)

const (
	HealthzHost = "0.0.0.0"
	HealthzPort = "8080"

	MetricsHost = "0.0.0.0"
	MetricsPort = "7300"

	ReportsHost = "0.0.0.0"
	ReportsPort = "8081"
)

type Service struct {
	Healthz *HealthzServer
	Metrics *MetricsServer
	Reports *ReportsServer
}

func New() *Service {
	s := &Service{
		Healthz: &HealthzServer{},
		Metrics: &MetricsServer{},
	}
	return s
}

func (s *Service) Start(ctx context.Context) {
	log.Info("service starting")

	go func() {
		addr := net.JoinHostPort(HealthzHost, HealthzPort)
		log.Info("starting healthz server", "addr", addr)
		if err := s.Healthz.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("error starting healthz server", "err", err)
			metrics.RecordErrorDetails("error starting healthz server", err)
		}
	}()

	go func() {
		addr := net.JoinHostPort(MetricsHost, MetricsPort)
		log.Info("starting metrics server", "addr", addr)
		if err := s.Metrics.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("error starting metrics server", "err", err)
			metrics.RecordErrorDetails("error starting metrics server", err)
		}
	}()

	log.Info("service started")
}

// ServeReports starts the report file server for the given directory on addr,
// falling back to the default address when addr is empty. It is separate from
// Start because the run directory is only known once the CLI config is parsed.
func (s *Service) ServeReports(ctx context.Context, dir string, addr string) {
	s.Reports = NewReportsServer(dir)

	go func() {
		if addr == "" {
			addr = net.JoinHostPort(ReportsHost, ReportsPort)
		}
		log.Info("starting report server", "addr", addr, "dir", dir)
		if err := s.Reports.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("error starting report server", "err", err)
			metrics.RecordErrorDetails("error starting report server", err)
		}
	}()
}

func (s *Service) Shutdown() {
	log.Info("service shutting down")

	_ = s.Healthz.Shutdown()
	log.Info("healthz stopped")

	_ = s.Metrics.Shutdown()
	log.Info("metrics stopped")

	if s.Reports != nil {
		_ = s.Reports.Shutdown()
		log.Info("reports stopped")
	}

	log.Info("service stopped")
}
