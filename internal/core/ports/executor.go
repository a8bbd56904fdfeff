package ports

import (
	"context"
	"io"

	"go.trai.ch/hdrcost/internal/core/domain"
)

// Executor runs external processes.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs cmd to completion, streaming its output to stdout and stderr.
	//
	// The returned ExitInfo is populated whenever the process started, even if
	// it exited non-zero; in that case the error wraps domain.ErrCommandFailed.
	// Any other error means the process never ran.
	Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) (*domain.ExitInfo, error)
}
