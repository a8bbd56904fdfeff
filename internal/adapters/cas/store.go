// Package cas implements the content-addressed result cache.
package cas

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/hdrcost/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

var _ ports.Cache = (*Store)(nil)

// Store implements ports.Cache with one file per fingerprint, sharded by the
// first hex character. An empty root disables persistence but keeps
// concurrent computes coalesced.
type Store struct {
	root  string
	group singleflight.Group
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the cache directory, or "" when persistence is disabled.
func (s *Store) Root() string {
	return s.root
}

// Get reads the entry for fp. A missing entry is a miss, not an error.
func (s *Store) Get(fp domain.Fingerprint) ([]byte, bool, error) {
	if s.root == "" || fp == "" {
		return nil, false, nil
	}

	//nolint:gosec // Path is constructed from the cache root and a hex fingerprint
	data, err := os.ReadFile(s.path(fp))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "fingerprint", fp.String())
	}
	return data, true, nil
}

// Put writes data under fp via a temp file and rename, so a concurrent
// reader sees either nothing or the complete entry.
func (s *Store) Put(fp domain.Fingerprint, data []byte) error {
	if s.root == "" || fp == "" {
		return nil
	}

	dir := filepath.Join(s.root, fp.Shard())
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheCreateFailed.Error())
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := os.Rename(tmpName, s.path(fp)); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	return nil
}

// GetOrCompute returns the cached value for fp, computing and storing it on
// a miss. Unreadable entries are recomputed.
func (s *Store) GetOrCompute(ctx context.Context, fp domain.Fingerprint, compute ports.ComputeFunc) ([]byte, error) {
	return s.GetValidOrCompute(ctx, fp, nil, compute)
}

// GetValidOrCompute returns the cached value for fp if valid accepts it, and
// otherwise computes a fresh value that overwrites the stale one. A nil valid
// accepts every entry.
func (s *Store) GetValidOrCompute(
	ctx context.Context,
	fp domain.Fingerprint,
	valid ports.ValidateFunc,
	compute ports.ComputeFunc,
) ([]byte, error) {
	if data, ok := s.lookup(fp, valid); ok {
		return data, nil
	}

	v, err, _ := s.group.Do(fp.String(), func() (any, error) {
		if data, ok := s.lookup(fp, valid); ok {
			return data, nil
		}

		data, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.Put(fp, data); err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	data, _ := v.([]byte)
	return data, nil
}

// lookup returns the stored entry for fp when there is a readable one that
// valid accepts.
func (s *Store) lookup(fp domain.Fingerprint, valid ports.ValidateFunc) ([]byte, bool) {
	data, ok, err := s.Get(fp)
	if err != nil || !ok {
		return nil, false
	}
	if valid != nil && !valid(data) {
		return nil, false
	}
	return data, true
}

func (s *Store) path(fp domain.Fingerprint) string {
	return filepath.Join(s.root, fp.Shard(), fp.String())
}
