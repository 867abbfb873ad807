package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of console output.
	OutputMode string

	// DatabaseBackend represents the database backend for the project store.
	DatabaseBackend string
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All project store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Shared formats and fixed file names.
const (
	// DayFormat is the UTC calendar-day key layout.
	DayFormat = "2006-01-02"

	// YearFormat and YearMonthFormat key the line breakdown buckets.
	YearFormat      = "2006"
	YearMonthFormat = "2006-01"

	// CacheFileName is the JSON sidecar under the stats directory.
	CacheFileName = "stats_cache.json"

	// ReportJSONName and ReportHTMLName are the emitted report files.
	ReportJSONName = "stats.json"
	ReportHTMLName = "index.html"
)
