package domain

import "time"

// RankedHeader is one row of the cost ranking.
type RankedHeader struct {
	ID       string
	RefCount int
	CPUTime  time.Duration
	// TotalCost is CPUTime multiplied by RefCount.
	TotalCost time.Duration
}

// TreeLine is one line of the attributed inclusion tree.
type TreeLine struct {
	// Depth is 0 for a source root and grows by one per inclusion level.
	Depth  int
	Label  string
	Total  time.Duration
	Self   time.Duration
	Source bool
}

// AttributionStats counts what the attribution pass decided per header.
type AttributionStats struct {
	Measured int
	Failed   int
	Pruned   int
	Skipped  int
}

// Report is everything an analysis run produces.
type Report struct {
	Sources int
	// MinDuration and CommonPercent echo the thresholds the report was cut with.
	MinDuration   time.Duration
	CommonPercent float64
	Headers       []RankedHeader
	Tree          []TreeLine
	Common        []string
	FailedHeaders []string
	FailedSources []string
	Stats         AttributionStats
}
