// Package analysis runs the header cost pipeline over a set of sources.
package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/hdrcost/internal/core/ports"
	"go.trai.ch/hdrcost/internal/engine/attribution"
	"go.trai.ch/hdrcost/internal/engine/common"
	"go.trai.ch/hdrcost/internal/engine/includes"
	"go.trai.ch/hdrcost/internal/engine/ranking"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Pipeline traces sources, attributes header costs and builds the report.
type Pipeline struct {
	compiler ports.Compiler
	logger   ports.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(compiler ports.Compiler, logger ports.Logger) *Pipeline {
	return &Pipeline{compiler: compiler, logger: logger}
}

type trace struct {
	output []byte
	failed bool
}

// Run analyzes sources with opts. A source whose trace fails contributes
// the part of the trace the compiler printed and is listed in
// Report.FailedSources.
func (p *Pipeline) Run(ctx context.Context, sources []string, opts domain.Options) (*domain.Report, error) {
	if len(sources) == 0 {
		return nil, domain.ErrNoSources
	}

	traces, err := p.traceAll(ctx, sources, opts.Jobs)
	if err != nil {
		return nil, err
	}

	// Trees are built in source order so header discovery order, and with it
	// the report, does not depend on which trace finished first.
	registry := domain.NewRegistry()
	builder := includes.NewBuilder(registry)
	forest := domain.NewForest()

	var failedSources []string
	for i, src := range sources {
		if traces[i].failed {
			failedSources = append(failedSources, src)
		}
		root, err := builder.Build(src, bytes.NewReader(traces[i].output))
		if err != nil {
			return nil, err
		}
		forest.Attach(root)
	}

	stats, err := attribution.NewEngine(p.compiler, p.logger).Attribute(ctx, forest, registry, opts)
	if err != nil {
		return nil, err
	}

	report := ranking.Build(forest, registry, common.Detect(forest, registry, opts), opts, failedSources)
	report.Stats = stats
	return report, nil
}

func (p *Pipeline) traceAll(ctx context.Context, sources []string, jobs int) ([]trace, error) {
	traces := make([]trace, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))

	for i, src := range sources {
		g.Go(func() error {
			out, err := p.compiler.Trace(gctx, src)
			if err != nil {
				if !errors.Is(err, domain.ErrTraceFailed) {
					return zerr.With(zerr.Wrap(err, "failed to trace source"), "source", src)
				}
				p.logger.Warn(fmt.Sprintf("compiler failed on %s; using the partial include trace", src))
				traces[i] = trace{output: out, failed: true}
				return nil
			}
			traces[i] = trace{output: out}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return traces, nil
}
