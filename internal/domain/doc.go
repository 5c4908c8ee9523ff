// Package domain models the Statistics Canada Labour Force Survey (LFS) data
// served by this service.
//
// # Data Source
//
// Table 14-10-0287-01 ("Labour force characteristics by province, monthly,
// seasonally adjusted") is published as a zipped CSV at
// https://www150.statcan.gc.ca/n1/en/tbl/csv/14100287-eng.zip. The archive
// holds the data file (14100287.csv) and a metadata file
// (14100287_MetaData.csv); the data file comes first.
//
// # StatCan CSV Conventions
//
// Headers:
//
//	REF_DATE, GEO, DGUID, Labour force characteristics, Sex, Age group,
//	Statistics, Data type, UOM, ..., VALUE, STATUS, SYMBOL, TERMINATED, DECIMALS
//	The first header usually carries a UTF-8 byte order mark, and column
//	labels have drifted between releases, so headers are matched loosely.
//	See [ColumnRefDate] and friends for the logical names.
//
// Reference dates:
//
//	"YYYY-MM" for monthly tables, e.g. "2024-02". Some exports use full
//	dates ("2024-02-01"); both normalize to "YYYY-MM".
//
// Values:
//
//	Rates are percentages with one decimal ("5.8"). Suppressed or missing
//	cells are empty, and the STATUS column carries the reason ("..", "x",
//	"F"). Such rows carry no value and are dropped, never read as zero.
//
// Geography:
//
//	"Canada" plus the ten provinces and three territories. See [Regions].
package domain
