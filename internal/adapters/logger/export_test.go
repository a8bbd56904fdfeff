package logger

// Exported for white-box testing of error formatting.
var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
	FormatValue         = formatValue
)
