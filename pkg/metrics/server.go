package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robotalks/safety.go/pkg/framework"
)

// Server serves /metrics.
type Server struct {
	Addr     string
	Gatherer prometheus.Gatherer
}

// NewServer creates a Server with its own registry holding the collector.
func NewServer(addr string, collectors ...prometheus.Collector) (*Server, error) {
	reg := prometheus.NewRegistry()
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return &Server{Addr: addr, Gatherer: reg}, nil
}

// Name implements framework.Named.
func (s *Server) Name() string {
	return "metrics"
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	glog.Infof("metrics on %s", s.Addr)
	return framework.RunWithContextCancel(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}, srv.ListenAndServe)
}
