// Package filecache keeps a local CSV copy of the source table and refetches
// it once it is older than domain.CacheMaxAge.
package filecache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/labour-insights-service/internal/dataset"
	"github.com/couchcryptid/labour-insights-service/internal/domain"
	"github.com/couchcryptid/labour-insights-service/internal/observability"
	"github.com/go-gota/gota/dataframe"
)

// Fetcher downloads a fresh copy of the table.
type Fetcher interface {
	FetchTable(ctx context.Context) (dataframe.DataFrame, error)
	URL() string
}

// RefreshNotifier is told about every successful refresh.
type RefreshNotifier interface {
	NotifyRefresh(ctx context.Context, event domain.RefreshEvent) error
}

// Status describes the cache file at the time of the call.
type Status struct {
	Path       string    `json:"path"`
	Exists     bool      `json:"exists"`
	ModTime    time.Time `json:"mod_time,omitzero"`
	AgeSeconds int64     `json:"age_seconds"`
	Fresh      bool      `json:"fresh"`
}

// Loader serves the table from disk while it is fresh and from the Fetcher
// otherwise. Concurrent cold loads are not coordinated: each one fetches and
// the last writer's file wins.
type Loader struct {
	fetcher  Fetcher
	dir      string
	path     string
	notifier RefreshNotifier
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewLoader creates a Loader that caches under dir. notifier may be nil.
func NewLoader(fetcher Fetcher, dir string, notifier RefreshNotifier, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		fetcher:  fetcher,
		dir:      dir,
		path:     filepath.Join(dir, domain.CacheFileName),
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
	}
}

// Path returns the cache file location.
func (l *Loader) Path() string {
	return l.path
}

// Status stats the cache file and computes its age against the domain clock.
// A missing file is not an error.
func (l *Loader) Status() (Status, error) {
	st := Status{Path: l.path}

	info, err := os.Stat(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("stat cache file: %w", err)
	}

	age := domain.Clock().Since(info.ModTime())
	st.Exists = true
	st.ModTime = info.ModTime()
	st.AgeSeconds = int64(age / time.Second)
	st.Fresh = age < domain.CacheMaxAge
	return st, nil
}

// EnsureFresh returns the cached table if it is younger than
// domain.CacheMaxAge, and otherwise fetches it, overwrites the cache file
// and returns the fetched copy. A failed fetch leaves the file untouched.
func (l *Loader) EnsureFresh(ctx context.Context) (dataframe.DataFrame, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("create cache dir: %w", err)
	}

	st, err := l.Status()
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	switch {
	case !st.Exists:
		l.metrics.CacheLookups.WithLabelValues("miss").Inc()
		l.logger.Info("no cached dataset", "path", l.path)
	case !st.Fresh:
		l.metrics.CacheLookups.WithLabelValues("stale").Inc()
		l.logger.Info("cached dataset expired", "path", l.path, "age_seconds", st.AgeSeconds)
	default:
		df, err := l.readCache()
		if err == nil {
			l.metrics.CacheLookups.WithLabelValues("hit").Inc()
			l.metrics.DatasetRows.Set(float64(df.Nrow()))
			l.logger.Debug("serving cached dataset", "path", l.path, "rows", df.Nrow())
			return df, nil
		}
		l.metrics.CacheLookups.WithLabelValues("corrupt").Inc()
		l.logger.Warn("cached dataset unreadable, refetching", "path", l.path, "error", err)
	}

	return l.refresh(ctx)
}

func (l *Loader) refresh(ctx context.Context) (dataframe.DataFrame, error) {
	start := time.Now()
	df, err := l.fetcher.FetchTable(ctx)
	l.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		l.metrics.Fetches.WithLabelValues("error").Inc()
		return dataframe.DataFrame{}, err
	}
	l.metrics.Fetches.WithLabelValues("success").Inc()
	l.metrics.DatasetRows.Set(float64(df.Nrow()))

	if err := l.writeCache(df); err != nil {
		return dataframe.DataFrame{}, err
	}
	l.logger.Info("dataset refreshed", "path", l.path, "rows", df.Nrow(), "columns", df.Ncol())

	l.notify(ctx, df)
	return df, nil
}

func (l *Loader) readCache() (dataframe.DataFrame, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open cache file: %w", err)
	}
	defer f.Close()

	return dataset.ReadCSV(f)
}

// writeCache overwrites the cache file in place.
func (l *Loader) writeCache(df dataframe.DataFrame) error {
	out, err := os.Create(l.path)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}

	// Remove partial files on failure.
	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(l.path)
		}
	}()

	if err := dataset.WriteCSV(out, df); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	success = true
	return nil
}

func (l *Loader) notify(ctx context.Context, df dataframe.DataFrame) {
	if l.notifier == nil {
		return
	}
	event := domain.RefreshEvent{
		Table:       domain.TableID,
		SourceURL:   l.fetcher.URL(),
		Rows:        df.Nrow(),
		Columns:     df.Names(),
		RefreshedAt: domain.Clock().Now().UTC(),
	}
	if err := l.notifier.NotifyRefresh(ctx, event); err != nil {
		l.metrics.RefreshNotifyErrs.Inc()
		l.logger.Warn("refresh notification failed", "error", err)
	}
}
