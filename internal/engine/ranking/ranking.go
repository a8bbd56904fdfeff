// Package ranking cuts an attributed forest into a report.
package ranking

import (
	"cmp"
	"slices"
	"time"

	"go.trai.ch/hdrcost/internal/core/domain"
)

// Build assembles the report for an attributed forest. common is the output
// of the common header detector, failedSources lists the sources whose trace
// did not complete. Report.Stats is left for the caller.
func Build(
	forest *domain.Forest,
	registry *domain.Registry,
	common []domain.FileID,
	opts domain.Options,
	failedSources []string,
) *domain.Report {
	r := &domain.Report{
		Sources:       len(forest.Sources()),
		MinDuration:   opts.MinDuration,
		CommonPercent: opts.CommonPercent,
		Headers:       rank(registry, opts.MinDuration),
		Tree:          tree(forest, opts.MinDuration),
		FailedSources: slices.Clone(failedSources),
	}

	for _, id := range common {
		r.Common = append(r.Common, id.String())
	}
	for h := range registry.All() {
		if h.Status == domain.HeaderFailed {
			r.FailedHeaders = append(r.FailedHeaders, h.ID.String())
		}
	}
	return r
}

// rank orders the measured headers at or above floor by their cost across
// every including source.
func rank(registry *domain.Registry, floor time.Duration) []domain.RankedHeader {
	var out []domain.RankedHeader
	for h := range registry.All() {
		cpu, ok := h.CPUTime()
		if !ok || cpu < floor {
			continue
		}
		out = append(out, domain.RankedHeader{
			ID:        h.ID.String(),
			RefCount:  h.RefCount,
			CPUTime:   cpu,
			TotalCost: cpu * time.Duration(h.RefCount),
		})
	}

	slices.SortFunc(out, func(a, b domain.RankedHeader) int {
		if c := cmp.Compare(b.TotalCost, a.TotalCost); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// tree flattens the forest for printing. A header line is emitted only when
// its cost is known and reaches floor; its subtree is hidden otherwise.
func tree(forest *domain.Forest, floor time.Duration) []domain.TreeLine {
	var out []domain.TreeLine

	var visit func(n *domain.Node, depth int)
	visit = func(n *domain.Node, depth int) {
		for _, c := range n.Children {
			if !c.Cost.Known || c.Cost.Total < floor {
				continue
			}
			out = append(out, domain.TreeLine{
				Depth: depth,
				Label: c.Label.String(),
				Total: c.Cost.Total,
				Self:  c.Cost.Self,
			})
			visit(c, depth+1)
		}
	}

	for _, src := range forest.Sources() {
		out = append(out, domain.TreeLine{Label: src.Label.String(), Source: true})
		visit(src, 1)
	}
	return out
}
