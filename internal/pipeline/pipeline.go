package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/labour-insights-service/internal/domain"
	"github.com/couchcryptid/labour-insights-service/internal/observability"
	"github.com/go-gota/gota/dataframe"
)

// DatasetLoader provides the raw table, refetching it when the cache is stale.
type DatasetLoader interface {
	EnsureFresh(ctx context.Context) (dataframe.DataFrame, error)
}

// Service answers series requests from the cached table.
type Service struct {
	loader  DatasetLoader
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Service backed by loader.
func New(loader DatasetLoader, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		loader:  loader,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once a dataset has been loaded successfully.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Warm loads the dataset once so the first request does not pay for the
// download. Failures are logged; the next request retries the load.
func (s *Service) Warm(ctx context.Context) {
	start := time.Now()
	df, err := s.loader.EnsureFresh(ctx)
	if err != nil {
		s.logger.Error("dataset warm-up failed", "error", err)
		return
	}
	s.ready.Store(true)
	s.logger.Info("dataset ready", "rows", df.Nrow(), "duration", time.Since(start))
}

// Series returns the unemployment rate series for region, limited to the
// latest limit points when limit is positive. Regions outside
// domain.Regions are rejected with *domain.InvalidRegionError before any I/O.
func (s *Service) Series(ctx context.Context, region string, limit int) ([]domain.Point, error) {
	if !domain.IsRegion(region) {
		s.metrics.SeriesRequests.WithLabelValues("invalid_region").Inc()
		return nil, &domain.InvalidRegionError{Region: region}
	}

	df, err := s.loader.EnsureFresh(ctx)
	if err != nil {
		s.metrics.SeriesRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	s.ready.Store(true)

	start := time.Now()
	points, err := Extract(df, region, limit)
	s.metrics.ExtractDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.SeriesRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	s.metrics.SeriesRequests.WithLabelValues("success").Inc()
	s.logger.Debug("series extracted", "geo", region, "latest_n", limit, "points", len(points))
	return points, nil
}
