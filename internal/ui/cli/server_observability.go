package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rosview/internal/shared/util"
)

// HealthStatus is the /health response body.
type HealthStatus struct {
	Status      string `json:"status"`
	Records     int    `json:"records"`
	GraphNodes  int    `json:"graph_nodes"`
	GraphEdges  int    `json:"graph_edges"`
	HeapAllocMB uint64 `json:"heap_alloc_mb"`
	Error       string `json:"error,omitempty"`
}

// HealthCheck fills in the domain part of a HealthStatus.
type HealthCheck func(ctx context.Context) HealthStatus

type ObservabilityServer struct {
	addr     string
	health   HealthCheck
	limiters *util.LimiterRegistry
	server   *http.Server
}

func NewObservabilityServer(addr string, health HealthCheck) *ObservabilityServer {
	return &ObservabilityServer{
		addr:     addr,
		health:   health,
		limiters: util.NewLimiterRegistry(20, 40, time.Minute),
	}
}

func (s *ObservabilityServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := HealthStatus{Status: "up"}
		if s.health != nil {
			status = s.health(r.Context())
		}
		status.HeapAllocMB = util.GetHeapAllocMB()
		w.Header().Set("Content-Type", "application/json")
		if status.Status != "up" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(status)
	})

	return s.rateLimit(mux)
}

func (s *ObservabilityServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !s.limiters.Get(host).Allow(1) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *ObservabilityServer) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("observability server starting", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("observability server failed", "error", err)
		}
	}()

	return nil
}

func (s *ObservabilityServer) Stop(ctx context.Context) error {
	s.limiters.Close()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
