package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/labour-insights-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestIDHeader = "X-Request-ID"

// SeriesService answers unemployment series requests and reports readiness.
type SeriesService interface {
	sharedobs.ReadinessChecker
	Series(ctx context.Context, region string, limit int) ([]domain.Point, error)
}

// Server exposes the series API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	service    SeriesService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /api routes and /healthz,
// /readyz, and /metrics.
func NewServer(addr string, service SeriesService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: domain.FetchTimeout + 30*time.Second, // cold cache waits on the download
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		logger:  logger,
	}

	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/regions", handleRegions)
	mux.HandleFunc("GET /api/unemployment", s.handleUnemployment)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(service))
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer.Handler = s.withRequestLogging(mux)
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

type seriesResponse struct {
	Geo     string         `json:"geo"`
	LatestN int            `json:"latest_n"`
	Series  []domain.Point `json:"series"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleRegions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"regions": domain.Regions()})
}

// handleUnemployment serves GET /api/unemployment?geo=<region>&latest_n=<int>.
// Every failure is answered with 400, whether the cause is the request or
// the upstream fetch.
func (s *Server) handleUnemployment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	geo := domain.DefaultRegion
	if q.Has("geo") {
		geo = q.Get("geo")
	}

	latestN := domain.DefaultLatestN
	if q.Has("latest_n") {
		n, err := strconv.Atoi(strings.TrimSpace(q.Get("latest_n")))
		if err != nil {
			s.badRequest(w, r, errors.New("latest_n must be an integer"))
			return
		}
		latestN = n
	}

	points, err := s.service.Series(r.Context(), geo, latestN)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	if points == nil {
		points = []domain.Point{}
	}

	writeJSON(w, http.StatusOK, seriesResponse{Geo: geo, LatestN: latestN, Series: points})
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("series request failed",
		"request_id", w.Header().Get(requestIDHeader),
		"query", r.URL.RawQuery,
		"error", err,
	)
	writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
}

// withRequestLogging tags each request with an X-Request-ID (kept when the
// client sends one) and logs it once the handler returns.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		level := slog.LevelDebug
		if strings.HasPrefix(r.URL.Path, "/api/") {
			level = slog.LevelInfo
		}
		s.logger.Log(r.Context(), level, "http request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
