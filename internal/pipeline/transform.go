package pipeline

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/labour-insights-service/internal/domain"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// refDateLayouts are tried in order when parsing REF_DATE cells.
var refDateLayouts = []string{
	"2006-01",
	"2006-01-02",
	time.RFC3339,
	"2006/01",
	"2006/01/02",
}

type observation struct {
	date  time.Time
	value float64
}

// Extract filters the raw table down to the unemployment rate of region
// (both sexes, 15 years and over) and returns it oldest first.
//
// Rows with a non-numeric value or an unparseable reference date are
// dropped. When limit is positive only the most recent limit points are
// kept. Region membership is not checked here; see Service.Series.
func Extract(df dataframe.DataFrame, region string, limit int) ([]domain.Point, error) {
	cols, err := ResolveColumns(df.Names())
	if err != nil {
		return nil, err
	}

	// Chained filters are ANDed; filters within one call would be ORed.
	sub := df.
		Filter(eq(cols.Characteristic, domain.LabelUnemploymentRate)).
		Filter(eq(cols.Sex, domain.LabelBothSexes)).
		Filter(eq(cols.AgeGroup, domain.LabelFifteenAndOver)).
		Filter(eq(cols.Geo, region))
	if sub.Err != nil {
		return nil, fmt.Errorf("filter rows: %w", sub.Err)
	}

	obs := observations(sub.Col(cols.RefDate).Records(), sub.Col(cols.Value).Float())

	slices.SortStableFunc(obs, func(a, b observation) int {
		return a.date.Compare(b.date)
	})
	if limit > 0 && len(obs) > limit {
		obs = obs[len(obs)-limit:]
	}

	points := make([]domain.Point, len(obs))
	for i, o := range obs {
		points[i] = domain.Point{Date: o.date.Format("2006-01"), Value: o.value}
	}
	return points, nil
}

func eq(column, value string) dataframe.F {
	return dataframe.F{Colname: column, Comparator: series.Eq, Comparando: value}
}

// observations pairs dates with values, skipping rows where either is unusable.
// Unparseable value cells arrive here as NaN.
func observations(dates []string, values []float64) []observation {
	obs := make([]observation, 0, len(dates))
	for i, raw := range dates {
		v := values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		d, ok := parseRefDate(raw)
		if !ok {
			continue
		}
		obs = append(obs, observation{date: d, value: v})
	}
	return obs
}

func parseRefDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range refDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
