// Package fs provides file system adapters for walking, hashing and finding sources.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/hdrcost/internal/core/domain"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file under root, skipping VCS metadata and
// the hdrcost state directory. Unreadable entries are skipped.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if path != root && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func skipDir(name string) bool {
	switch name {
	case ".git", ".jj", domain.HdrcostDirName:
		return true
	}
	return false
}
