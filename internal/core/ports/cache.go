package ports

import (
	"context"

	"go.trai.ch/hdrcost/internal/core/domain"
)

// ComputeFunc produces the value for a fingerprint. It must be a pure
// function of the arguments the fingerprint was built from.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// ValidateFunc reports whether a stored entry still describes the current
// state of the files it was derived from.
type ValidateFunc func(data []byte) bool

// Cache memoizes the raw results of expensive operations by fingerprint.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type Cache interface {
	// Get returns the stored bytes and whether an entry exists.
	Get(fp domain.Fingerprint) ([]byte, bool, error)

	// Put stores data under fp. Readers never observe a partial entry.
	Put(fp domain.Fingerprint, data []byte) error

	// GetOrCompute returns the stored value for fp, or runs compute and stores
	// its result. Concurrent callers for the same fingerprint share a single
	// compute. Failed computes are returned to every waiter and not stored.
	GetOrCompute(ctx context.Context, fp domain.Fingerprint, compute ComputeFunc) ([]byte, error)

	// GetValidOrCompute is GetOrCompute for entries that can go stale. A stored
	// entry is only returned if valid accepts it; otherwise compute runs and
	// its result replaces the entry.
	GetValidOrCompute(
		ctx context.Context,
		fp domain.Fingerprint,
		valid ValidateFunc,
		compute ComputeFunc,
	) ([]byte, error)
}
