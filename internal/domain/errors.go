package domain

import (
	"fmt"
	"strings"
)

// FetchError reports a failed download of the source archive: either a
// transport failure (Err set) or a non-success HTTP status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FormatError reports a payload that does not have the expected shape, such
// as an archive without a CSV entry or a CSV that cannot be parsed.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// ColumnResolutionError names a logical column that matched no header.
type ColumnResolutionError struct {
	Column string
}

func (e *ColumnResolutionError) Error() string {
	return fmt.Sprintf("column not found: %s", e.Column)
}

// InvalidRegionError rejects a region outside [Regions].
type InvalidRegionError struct {
	Region string
}

func (e *InvalidRegionError) Error() string {
	return fmt.Sprintf("invalid region %q, use one of: %s", e.Region, strings.Join(regions, ", "))
}
