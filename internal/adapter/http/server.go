package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// ReportProvider returns the most recently built report.
type ReportProvider interface {
	Latest() (domain.Report, bool)
}

// Server exposes health, readiness, metrics, and report HTTP endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, /report,
// and /report/{table} routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, reports ReportProvider, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /report", handleReport(reports))
	mux.HandleFunc("GET /report/{table}", handleReportTable(reports))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func handleReport(reports ReportProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		report, ok := reports.Latest()
		if !ok {
			writeNoReport(w)
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, report)
	}
}

func handleReportTable(reports ReportProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, ok := reports.Latest()
		if !ok {
			writeNoReport(w)
			return
		}
		name := r.PathValue("table")
		rows, ok := report.Table(name)
		if !ok {
			sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "unknown table " + name})
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, rows)
	}
}

func writeNoReport(w http.ResponseWriter) {
	sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "report not built yet"})
}
