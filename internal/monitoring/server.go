package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ducminhle1904/strategy-sweep/pkg/logger"
)

var startTime = time.Now()

// Server exposes /metrics and /healthz while a long sweep runs.
type Server struct {
	srv *http.Server
	log *logger.Logger
}

type healthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

// NewServer creates a monitoring server on the given address, e.g. ":9090".
func NewServer(addr string, log *logger.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(healthStatus{
			Status:    "healthy",
			Timestamp: time.Now(),
			Uptime:    time.Since(startTime).String(),
		})
	})

	return &Server{
		srv: &http.Server{Addr: addr, Handler: mux},
		log: log,
	}
}

// Start serves in a background goroutine until Shutdown.
func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.log != nil {
				s.log.Warn("monitoring server stopped", logger.Err(err))
			}
		}
	}()
	if s.log != nil {
		s.log.Info("monitoring server started", logger.String("addr", s.srv.Addr))
	}
}

// Shutdown stops the server, waiting up to the context's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
