// Package timing measures the resource usage of single external processes.
package timing

import (
	"context"
	"errors"
	"io"

	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/hdrcost/internal/core/ports"
)

// New returns the timer selected by kind.
func New(kind domain.TimerKind, harness string, executor ports.Executor) ports.Timer {
	if kind == domain.TimerRusage {
		return NewRusage(executor)
	}
	return NewHarness(harness, executor)
}

var _ ports.Timer = (*Rusage)(nil)

// Rusage times a process by reading its rusage from the kernel on exit.
type Rusage struct {
	executor ports.Executor
}

// NewRusage creates a Rusage timer.
func NewRusage(executor ports.Executor) *Rusage {
	return &Rusage{executor: executor}
}

// Time implements ports.Timer.
func (r *Rusage) Time(ctx context.Context, cmd *domain.Command, stderr io.Writer) (domain.TimingResult, error) {
	info, err := r.executor.Execute(ctx, cmd, io.Discard, stderr)
	if err != nil {
		if errors.Is(err, domain.ErrCommandFailed) {
			return domain.FailedTiming(), nil
		}
		return domain.TimingResult{}, err
	}
	return info.Timing(), nil
}
