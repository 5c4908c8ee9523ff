package domain

import (
	"slices"
	"time"
)

const (
	// TableID is the StatCan product identifier of the source table.
	TableID = "14100287"

	// SourceURL serves the English CSV archive of the table.
	SourceURL = "https://www150.statcan.gc.ca/n1/en/tbl/csv/" + TableID + "-eng.zip"

	// CacheFileName is the name of the on-disk copy of the table.
	CacheFileName = TableID + ".csv"

	// CacheMaxAge is how long a cached copy is served before it is refetched.
	CacheMaxAge = 7 * 24 * time.Hour

	// FetchTimeout bounds the whole archive download.
	FetchTimeout = 60 * time.Second

	// DefaultRegion and DefaultLatestN apply when a request omits them.
	DefaultRegion  = "Canada"
	DefaultLatestN = 24
)

// Logical column names. Actual headers are resolved against these
// case-insensitively, see pipeline.ResolveColumns.
const (
	ColumnRefDate        = "REF_DATE"
	ColumnGeo            = "GEO"
	ColumnCharacteristic = "Labour force characteristics"
	ColumnSex            = "Sex"
	ColumnAgeGroup       = "Age group"
	ColumnAdjustment     = "Seasonal adjustment"
	ColumnValue          = "VALUE"
)

// Row labels selecting the headline unemployment rate.
const (
	LabelUnemploymentRate   = "Unemployment rate"
	LabelBothSexes          = "Both sexes"
	LabelFifteenAndOver     = "15 years and over"
	LabelSeasonallyAdjusted = "Seasonally adjusted"
)

var regions = []string{
	"Canada",
	"Newfoundland and Labrador",
	"Prince Edward Island",
	"Nova Scotia",
	"New Brunswick",
	"Quebec",
	"Ontario",
	"Manitoba",
	"Saskatchewan",
	"Alberta",
	"British Columbia",
	"Yukon",
	"Northwest Territories",
	"Nunavut",
}

// Regions returns the GEO labels a series can be requested for, country first.
func Regions() []string {
	return slices.Clone(regions)
}

// IsRegion reports whether geo is one of [Regions]. Matching is exact.
func IsRegion(geo string) bool {
	return slices.Contains(regions, geo)
}

// Point is one observation of a monthly series.
type Point struct {
	Date  string  `json:"date"` // YYYY-MM
	Value float64 `json:"value"`
}

// RefreshEvent describes a completed refresh of the cached table.
type RefreshEvent struct {
	Table       string    `json:"table"`
	SourceURL   string    `json:"source_url"`
	Rows        int       `json:"rows"`
	Columns     []string  `json:"columns"`
	RefreshedAt time.Time `json:"refreshed_at"`
}
