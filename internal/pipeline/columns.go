package pipeline

import (
	"strings"

	"github.com/couchcryptid/labour-insights-service/internal/domain"
)

// Columns maps each logical column to the header it resolved to.
type Columns struct {
	RefDate        string
	Geo            string
	Characteristic string
	Sex            string
	AgeGroup       string
	Value          string
}

// ResolveColumns matches the logical columns against the actual headers.
// Each column is looked up in two passes: a case-insensitive exact match on
// the trimmed header, then case-insensitive containment. Within a pass the
// first matching header wins. The first column that matches nothing is
// reported as a *domain.ColumnResolutionError.
func ResolveColumns(headers []string) (Columns, error) {
	var c Columns
	targets := []struct {
		logical string
		dst     *string
	}{
		{domain.ColumnRefDate, &c.RefDate},
		{domain.ColumnGeo, &c.Geo},
		{domain.ColumnCharacteristic, &c.Characteristic},
		{domain.ColumnSex, &c.Sex},
		{domain.ColumnAgeGroup, &c.AgeGroup},
		{domain.ColumnValue, &c.Value},
	}

	for _, t := range targets {
		header, err := resolveColumn(headers, t.logical)
		if err != nil {
			return Columns{}, err
		}
		*t.dst = header
	}
	return c, nil
}

func resolveColumn(headers []string, logical string) (string, error) {
	want := strings.ToLower(logical)

	for _, h := range headers {
		if normalizeHeader(h) == want {
			return h, nil
		}
	}
	for _, h := range headers {
		if strings.Contains(normalizeHeader(h), want) {
			return h, nil
		}
	}
	return "", &domain.ColumnResolutionError{Column: logical}
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
