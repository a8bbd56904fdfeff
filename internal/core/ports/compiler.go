package ports

import (
	"context"

	"go.trai.ch/hdrcost/internal/core/domain"
)

// Compiler is the C++ toolchain as seen by the analysis.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Trace preprocesses source with header tracing enabled and returns the
	// diagnostic stream. When the compiler fails, the output gathered so far
	// is returned together with an error wrapping domain.ErrTraceFailed.
	Trace(ctx context.Context, source string) ([]byte, error)

	// TimeHeader compiles a translation unit that only includes header and
	// reports what it cost.
	TimeHeader(ctx context.Context, header string) (domain.TimingResult, error)
}
