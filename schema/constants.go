package schema

// Custom string types for type safety.
type (
	// Granularity is the calendar unit points are bucketed into.
	Granularity string

	// Variant names a chart variant and its windowing strategy.
	Variant string

	// OutputMode represents the format of the output.
	OutputMode string

	// InputFormat is the shape of the table handed to the row adapters.
	InputFormat string

	// SummaryStatus tells the renderer whether there is anything to draw.
	SummaryStatus string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string
)

// All bucket granularities supported.
const (
	DayGranularity   Granularity = "day"
	WeekGranularity  Granularity = "week"
	MonthGranularity Granularity = "month"
)

// All chart variants supported.
const (
	SixWeekVariant     Variant = "six-week"     // trailing-count over weekly buckets
	TwelveMonthVariant Variant = "twelve-month" // trailing-span over monthly buckets
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All input formats supported.
const (
	CSVInput  InputFormat = "csv"
	JSONInput InputFormat = "json"
	XLSXInput InputFormat = "xlsx"
)

// All summary statuses.
const (
	StatusOK           SummaryStatus = "ok"
	StatusNoData       SummaryStatus = "no_data"
	StatusInsufficient SummaryStatus = "insufficient"
	StatusFailed       SummaryStatus = "failed"
)

// User-visible messages for each non-ok status.
const (
	MsgNoData       = "No valid data available to display"
	MsgInsufficient = "Insufficient data for visualization"
	MsgCannotRender = "Unable to display visualization. Please check your data configuration."
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// Default style values for the chart.
const (
	DefaultLineColor       = "#3366CC"
	DefaultHistoricalColor = "#FF9999"
	DefaultTargetColor     = "#00AA00"
	DefaultGraphNumber     = 1
)

// AllVariants returns a list of all supported chart variants.
var AllVariants = []Variant{SixWeekVariant, TwelveMonthVariant}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidInputFormats lists all valid input formats.
var ValidInputFormats = map[InputFormat]struct{}{
	CSVInput:  {},
	JSONInput: {},
	XLSXInput: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// BucketGranularity returns the granularity a variant displays.
func (v Variant) BucketGranularity() Granularity {
	if v == TwelveMonthVariant {
		return MonthGranularity
	}
	return WeekGranularity
}

// LastValueLabel returns the box score label for the most recent bucket.
func (v Variant) LastValueLabel() string {
	if v == TwelveMonthVariant {
		return "Last Month"
	}
	return "Last Week"
}

// PriorPeriodLabel returns the box score label for the bucket-over-bucket change.
func (v Variant) PriorPeriodLabel() string {
	if v == TwelveMonthVariant {
		return "MoM"
	}
	return "WoW"
}
