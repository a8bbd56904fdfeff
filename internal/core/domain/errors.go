package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidOptions is returned when the analysis options fail validation.
	ErrInvalidOptions = zerr.New("invalid options")

	// ErrNoSources is returned when no translation units were found under the given paths.
	ErrNoSources = zerr.New("no source files found")

	// ErrSourceNotFound is returned when a path passed for analysis does not exist.
	ErrSourceNotFound = zerr.New("source path not found")

	// ErrCommandFailed is returned when an external process exits with a non-zero status.
	ErrCommandFailed = zerr.New("command failed")

	// ErrCommandStartFailed is returned when an external process cannot be started.
	ErrCommandStartFailed = zerr.New("failed to start command")

	// ErrEmptyCommand is returned when a command has no arguments.
	ErrEmptyCommand = zerr.New("empty command")

	// ErrTraceFailed is returned when the compiler include trace exits non-zero.
	ErrTraceFailed = zerr.New("include trace failed")

	// ErrHarnessOutputInvalid is returned when the timing harness output cannot be parsed.
	ErrHarnessOutputInvalid = zerr.New("invalid timing harness output")

	// ErrAnalysisFailed is returned when the analysis pipeline aborts.
	ErrAnalysisFailed = zerr.New("analysis failed")

	// ErrCacheCreateFailed is returned when the cache shard directory cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create cache directory")

	// ErrCacheReadFailed is returned when a cache entry cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read cache entry")

	// ErrCacheWriteFailed is returned when a cache entry cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write cache entry")

	// ErrEntryDecodeFailed is returned when a cached result cannot be decoded.
	ErrEntryDecodeFailed = zerr.New("failed to decode cache entry")

	// ErrEntryEncodeFailed is returned when a result cannot be encoded for the cache.
	ErrEntryEncodeFailed = zerr.New("failed to encode cache entry")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidFlags is returned when the compiler flag string cannot be split.
	ErrInvalidFlags = zerr.New("invalid compiler flags")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrReportWriteFailed is returned when a report cannot be written.
	ErrReportWriteFailed = zerr.New("failed to write report")

	// ErrUnknownFormat is returned for an unsupported report format.
	ErrUnknownFormat = zerr.New("unknown report format")
)
