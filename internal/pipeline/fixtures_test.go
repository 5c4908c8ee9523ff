package pipeline_test

import (
	"strings"
	"testing"

	"github.com/couchcryptid/labour-insights-service/internal/dataset"
	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/require"
)

// lfsHeader mirrors the column layout of the 14-10-0287 CSV export.
const lfsHeader = "\ufeffREF_DATE,GEO,DGUID,Labour force characteristics,Sex,Age group,Statistics,Data type,UOM,VALUE,STATUS\n"

type lfsRow struct {
	date  string
	geo   string
	char  string
	sex   string
	age   string
	value string
}

// rate is a headline unemployment rate row.
func rate(date, geo, value string) lfsRow {
	return lfsRow{date: date, geo: geo, char: "Unemployment rate", sex: "Both sexes", age: "15 years and over", value: value}
}

func buildCSV(rows ...lfsRow) string {
	var b strings.Builder
	b.WriteString(lfsHeader)
	for _, r := range rows {
		b.WriteString(strings.Join([]string{
			r.date, quote(r.geo), "2016A000011124", quote(r.char), r.sex, r.age,
			"Estimate", "Seasonally adjusted", "Percentage", r.value, "",
		}, ","))
		b.WriteString("\n")
	}
	return b.String()
}

func quote(s string) string {
	return `"` + s + `"`
}

func buildFrame(t *testing.T, rows ...lfsRow) dataframe.DataFrame {
	t.Helper()
	df, err := dataset.ReadCSV(strings.NewReader(buildCSV(rows...)))
	require.NoError(t, err)
	return df
}

// ontarioRows is five chronologically ordered Ontario rates plus rows that
// must all be filtered out.
func ontarioRows() []lfsRow {
	return []lfsRow{
		rate("2023-10", "Ontario", "5.6"),
		rate("2023-11", "Ontario", "5.7"),
		rate("2023-12", "Ontario", "5.8"),
		rate("2024-01", "Ontario", "5.9"),
		rate("2024-02", "Ontario", "6.0"),

		rate("2024-02", "Quebec", "4.6"),
		rate("2024-02", "Ontario (part)", "9.9"),
		{date: "2024-02", geo: "Ontario", char: "Employment rate", sex: "Both sexes", age: "15 years and over", value: "61.2"},
		{date: "2024-02", geo: "Ontario", char: "Unemployment rate", sex: "Females", age: "15 years and over", value: "5.5"},
		{date: "2024-02", geo: "Ontario", char: "Unemployment rate", sex: "Both sexes", age: "15 to 24 years", value: "12.1"},
	}
}
