package ports

import (
	"context"
	"time"
)

// Renderer presents progress of external invocations.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes any buffered output.
	Stop() error

	// OnTaskStart is called when an invocation begins.
	// spanID identifies the invocation, parentID is empty for roots.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when an invocation emits output.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when an invocation finishes; err is nil on success.
	// cached reports that the result came from the cache without running the
	// compiler.
	OnTaskComplete(spanID string, endTime time.Time, cached bool, err error)
}
