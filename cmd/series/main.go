// Command series prints the unemployment rate series for one region as JSON,
// refreshing the local cache when it has expired. With -status it prints the
// cache file state instead and performs no network I/O.
//
// Usage:
//
//	go run ./cmd/series -geo Ontario -n 12
//	go run ./cmd/series -status -cache-dir /var/cache/labour
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/labour-insights-service/internal/adapter/filecache"
	"github.com/couchcryptid/labour-insights-service/internal/adapter/statcan"
	"github.com/couchcryptid/labour-insights-service/internal/domain"
	"github.com/couchcryptid/labour-insights-service/internal/observability"
	"github.com/couchcryptid/labour-insights-service/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	geo := flag.String("geo", domain.DefaultRegion, "region to extract")
	n := flag.Int("n", domain.DefaultLatestN, "number of most recent points (0 = all)")
	cacheDir := flag.String("cache-dir", "cache", "directory holding the cached table")
	status := flag.Bool("status", false, "print cache status and exit")
	verbose := flag.Bool("v", false, "log progress to stderr")
	flag.Parse()

	if *cacheDir == "" {
		flag.Usage()
		return fmt.Errorf("-cache-dir must not be empty")
	}

	logOut := io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))
	metrics := observability.NewMetrics()

	client := statcan.NewClient(domain.SourceURL, domain.FetchTimeout, logger)
	loader := filecache.NewLoader(client, *cacheDir, nil, logger, metrics)

	if *status {
		st, err := loader.Status()
		if err != nil {
			return err
		}
		return writeJSON(os.Stdout, st)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := pipeline.New(loader, logger, metrics)
	series, err := svc.Series(ctx, *geo, *n)
	if err != nil {
		return err
	}
	if series == nil {
		series = []domain.Point{}
	}
	return writeJSON(os.Stdout, map[string]any{
		"geo":      *geo,
		"latest_n": *n,
		"series":   series,
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
