// Package statcan downloads Statistics Canada full-table CSV archives.
package statcan

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/labour-insights-service/internal/dataset"
	"github.com/couchcryptid/labour-insights-service/internal/domain"
	"github.com/go-gota/gota/dataframe"
)

// Client fetches one table archive and parses its data file.
// It implements filecache.Fetcher.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the archive at url. The timeout bounds the
// whole request, body included.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// URL returns the archive location.
func (c *Client) URL() string {
	return c.url
}

// FetchTable downloads the archive and parses the first CSV entry in it.
// Download failures are *domain.FetchError; archive and CSV problems are
// *domain.FormatError. There are no retries.
func (c *Client) FetchTable(ctx context.Context) (dataframe.DataFrame, error) {
	start := time.Now()
	body, err := c.download(ctx)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	c.logger.Info("archive downloaded", "url", c.url, "bytes", len(body), "duration", time.Since(start))

	return parseArchive(body)
}

func (c *Client) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, &domain.FetchError{URL: c.url, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.FetchError{URL: c.url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{URL: c.url, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

// parseArchive reads the archive from memory; nothing is extracted to disk.
func parseArchive(body []byte) (dataframe.DataFrame, error) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return dataframe.DataFrame{}, &domain.FormatError{Reason: "open archive", Err: err}
	}

	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		return parseEntry(f)
	}
	return dataframe.DataFrame{}, &domain.FormatError{Reason: "no csv file in archive"}
}

// parseEntry is split out of the loop so the entry reader is closed by defer.
func parseEntry(f *zip.File) (dataframe.DataFrame, error) {
	rc, err := f.Open()
	if err != nil {
		return dataframe.DataFrame{}, &domain.FormatError{Reason: "open " + f.Name, Err: err}
	}
	defer rc.Close()

	df, err := dataset.ReadCSV(rc)
	if err != nil {
		return dataframe.DataFrame{}, &domain.FormatError{Reason: "parse " + f.Name, Err: err}
	}
	return df, nil
}
