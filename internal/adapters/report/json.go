package report

import (
	"encoding/json"
	"io"

	"go.trai.ch/hdrcost/internal/core/domain"
)

// Durations are reported in seconds.
type jsonReport struct {
	Sources       int            `json:"sources"`
	MinDuration   float64        `json:"min_duration"`
	CommonPercent float64        `json:"common_percent"`
	Headers       []jsonHeader   `json:"headers"`
	Tree          []jsonTreeLine `json:"tree"`
	Common        []string       `json:"common"`
	Failed        jsonFailed     `json:"failed"`
	Stats         jsonStats      `json:"stats"`
}

type jsonHeader struct {
	Header    string  `json:"header"`
	RefCount  int     `json:"ref_count"`
	CPUTime   float64 `json:"cpu_time"`
	TotalCost float64 `json:"total_cost"`
}

type jsonTreeLine struct {
	Depth  int      `json:"depth"`
	Label  string   `json:"label"`
	Source bool     `json:"source,omitempty"`
	Total  *float64 `json:"total,omitempty"`
	Self   *float64 `json:"self,omitempty"`
}

type jsonFailed struct {
	Headers []string `json:"headers"`
	Sources []string `json:"sources"`
}

type jsonStats struct {
	Measured int `json:"measured"`
	Failed   int `json:"failed"`
	Pruned   int `json:"pruned"`
	Skipped  int `json:"skipped"`
}

func writeJSON(w io.Writer, r *domain.Report) error {
	view := jsonReport{
		Sources:       r.Sources,
		MinDuration:   r.MinDuration.Seconds(),
		CommonPercent: r.CommonPercent,
		Headers:       make([]jsonHeader, 0, len(r.Headers)),
		Tree:          make([]jsonTreeLine, 0, len(r.Tree)),
		Common:        nonNil(r.Common),
		Failed: jsonFailed{
			Headers: nonNil(r.FailedHeaders),
			Sources: nonNil(r.FailedSources),
		},
		Stats: jsonStats(r.Stats),
	}

	for _, h := range r.Headers {
		view.Headers = append(view.Headers, jsonHeader{
			Header:    h.ID,
			RefCount:  h.RefCount,
			CPUTime:   h.CPUTime.Seconds(),
			TotalCost: h.TotalCost.Seconds(),
		})
	}

	for _, line := range r.Tree {
		jl := jsonTreeLine{Depth: line.Depth, Label: line.Label, Source: line.Source}
		if !line.Source {
			total, self := line.Total.Seconds(), line.Self.Seconds()
			jl.Total, jl.Self = &total, &self
		}
		view.Tree = append(view.Tree, jl)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
