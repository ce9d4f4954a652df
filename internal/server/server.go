package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/headline-goat/goatchart/internal/dataset"
)

// Server publishes a loaded dataset document for chart clients to fetch.
// It serves the raw counts only; aggregation stays on the client.
type Server struct {
	doc       []byte
	days      int
	port      int
	token     string
	router    chi.Router
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	log       *slog.Logger
	startTime time.Time
}

// New builds a server for ds. An empty token leaves /data.json public.
func New(ds *dataset.Dataset, port int, token string, log *slog.Logger) (*Server, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(ds); err != nil {
		return nil, fmt.Errorf("failed to encode dataset: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	srv := &Server{
		doc:       buf.Bytes(),
		days:      len(ds.Data),
		port:      port,
		token:     token,
		router:    chi.NewRouter(),
		registry:  prometheus.NewRegistry(),
		log:       log,
		startTime: time.Now(),
	}
	srv.setupMetrics(ds)
	srv.setupRoutes()
	return srv, nil
}

func (s *Server) setupMetrics(ds *dataset.Dataset) {
	s.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "goatchart_http_requests_total",
		Help: "HTTP requests served, by route and status code.",
	}, []string{"route", "code"})

	variations := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "goatchart_dataset_variations",
		Help: "Variations in the served dataset.",
	})
	variations.Set(float64(len(ds.Variations)))

	days := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "goatchart_dataset_days",
		Help: "Daily records in the served dataset.",
	})
	days.Set(float64(len(ds.Data)))

	s.registry.MustRegister(s.requests, variations, days)
}

func (s *Server) setupRoutes() {
	s.router.Use(RequestID)
	s.router.Use(Logger(s.log))
	s.router.Use(s.countRequests)

	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.With(s.authMiddleware).Get("/data.json", s.handleData)
	s.router.With(s.authMiddleware).Head("/data.json", s.handleData)
}

// Start listens on the configured port until the server fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.log.Info("starting server", slog.String("addr", addr), slog.Int("days", s.days))

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (s *Server) Token() string {
	return s.token
}

func (s *Server) Handler() http.Handler {
	return s.router
}
