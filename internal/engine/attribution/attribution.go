// Package attribution decides which headers to time and spreads the measured
// cost over the inclusion forest.
//
// Headers are visited breadth first. A header is timed at most once, only
// when enough sources include it, and only when no ancestor occurrence was
// already measured below the duration threshold. That last rule is a
// heuristic: an expensive header that sits under a cheap one is never timed.
package attribution

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/hdrcost/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Engine runs the attribution pass.
type Engine struct {
	compiler ports.Compiler
	logger   ports.Logger
}

// NewEngine creates an Engine that times headers with compiler.
func NewEngine(compiler ports.Compiler, logger ports.Logger) *Engine {
	return &Engine{compiler: compiler, logger: logger}
}

type decision uint8

const (
	decideTime decision = iota
	decideDone
	decideSkip
	decidePrune
)

// Attribute times the headers of forest that pass the selection rules,
// records the results in registry and fills in every header node's Cost.
//
// Levels are processed one after another. All ancestors of a level lie in
// earlier levels, so every pruning decision sees final measurements, and the
// headers of one level are timed concurrently, at most opts.Jobs at a time.
func (e *Engine) Attribute(
	ctx context.Context,
	forest *domain.Forest,
	registry *domain.Registry,
	opts domain.Options,
) (domain.AttributionStats, error) {
	skipped := make(map[domain.FileID]struct{})
	pruned := make(map[domain.FileID]struct{})

	for _, level := range forest.Levels() {
		var batch []domain.FileID
		queued := make(map[domain.FileID]struct{})

		for _, n := range level {
			if _, ok := queued[n.Label]; ok {
				continue
			}
			switch e.decide(n, registry, opts) {
			case decideSkip:
				skipped[n.Label] = struct{}{}
			case decidePrune:
				pruned[n.Label] = struct{}{}
			case decideTime:
				queued[n.Label] = struct{}{}
				batch = append(batch, n.Label)
			case decideDone:
			}
		}

		if err := e.timeAll(ctx, batch, registry, opts.Jobs); err != nil {
			return domain.AttributionStats{}, err
		}
	}

	assignCosts(forest, registry)

	stats := domain.AttributionStats{Skipped: len(skipped)}
	for h := range registry.All() {
		switch h.Status {
		case domain.HeaderMeasured:
			stats.Measured++
		case domain.HeaderFailed:
			stats.Failed++
		case domain.HeaderUntimed:
			if _, ok := pruned[h.ID]; ok {
				stats.Pruned++
			}
		}
	}
	return stats, nil
}

func (e *Engine) decide(n *domain.Node, registry *domain.Registry, opts domain.Options) decision {
	h := registry.Get(n.Label)
	if h.Timed() {
		return decideDone
	}
	if h.RefCount < opts.MinRefs {
		return decideSkip
	}
	for a := range n.Ancestors() {
		if cpu, ok := registry.Get(a.Label).CPUTime(); ok && cpu < opts.MinDuration {
			return decidePrune
		}
	}
	return decideTime
}

func (e *Engine) timeAll(
	ctx context.Context,
	headers []domain.FileID,
	registry *domain.Registry,
	jobs int,
) error {
	if len(headers) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))

	for _, id := range headers {
		g.Go(func() error {
			res, err := e.compiler.TimeHeader(gctx, id.String())
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				e.logger.Error(zerr.With(zerr.Wrap(err, "failed to time header"), "header", id.String()))
				res = domain.FailedTiming()
			}
			if !res.OK() {
				e.logger.Warn(fmt.Sprintf("%s does not compile on its own; its cost is unknown", id))
			}
			registry.RecordTiming(id, res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return zerr.Wrap(err, "header timing aborted")
	}
	return ctx.Err()
}

// assignCosts sets Total to the header's measured cpu time and Self to what
// is left after subtracting every measured child. Unmeasured nodes stay
// unknown and do not count against their parent.
func assignCosts(forest *domain.Forest, registry *domain.Registry) {
	for n := range forest.BreadthFirst() {
		total, ok := registry.Get(n.Label).CPUTime()
		if !ok {
			n.Cost = domain.Cost{}
			continue
		}

		self := total
		for _, c := range n.Children {
			if cpu, ok := registry.Get(c.Label).CPUTime(); ok {
				self -= cpu
			}
		}
		n.Cost = domain.Cost{Total: total, Self: max(self, 0), Known: true}
	}
}
