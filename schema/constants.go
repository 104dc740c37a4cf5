package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// PeriodType represents the dashboard period selection.
	PeriodType string

	// DatabaseBackend represents the database backend for caching and run history.
	DatabaseBackend string

	// StatsSource represents where period statistics are fetched from.
	StatsSource string

	// SeriesKey names one of the three normalized percent series.
	SeriesKey string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All period types supported.
const (
	WeekPeriod   PeriodType = "week" // default
	MonthPeriod  PeriodType = "month"
	CustomPeriod PeriodType = "custom"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All stats sources supported.
const (
	FileSource StatsSource = "file" // default
	HTTPSource StatsSource = "http"
)

// Series keys, named after the payload fields they are derived from.
const (
	InfoSeries  SeriesKey = "ai_percent"
	TermsSeries SeriesKey = "terms_percent"
	QuizSeries  SeriesKey = "quiz_percent"
)

// DayKeyLayout is the calendar-day key format used across the payload and the engine.
const DayKeyLayout = "2006-01-02"

// Period lengths in days, inclusive of today.
const (
	WeekDays  = 7
	MonthDays = 30
)

// AllSeries lists the series in display order.
var AllSeries = []SeriesKey{InfoSeries, TermsSeries, QuizSeries}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidPeriodTypes lists all valid period types.
var ValidPeriodTypes = map[PeriodType]struct{}{
	WeekPeriod:   {},
	MonthPeriod:  {},
	CustomPeriod: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidStatsSources lists all valid stats sources.
var ValidStatsSources = map[StatsSource]struct{}{
	FileSource: {},
	HTTPSource: {},
}
