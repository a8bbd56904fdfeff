package ports

import (
	"context"
	"io"

	"go.trai.ch/hdrcost/internal/core/domain"
)

// Timer measures the resources one external process consumes.
//
//go:generate mockgen -source=timer.go -destination=mocks/mock_timer.go -package=mocks
type Timer interface {
	// Time runs cmd exactly once. A process that exits non-zero yields
	// domain.FailedTiming() and a nil error; its diagnostics go to stderr.
	// An error is returned only when the process could not be run at all.
	Time(ctx context.Context, cmd *domain.Command, stderr io.Writer) (domain.TimingResult, error)
}
