package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/hdrcost/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceFinder = (*Finder)(nil)

// Finder expands analysis paths into translation units.
type Finder struct {
	walker *Walker
}

// NewFinder creates a Finder that descends directories with walker.
func NewFinder(walker *Walker) *Finder {
	return &Finder{walker: walker}
}

// FindSources implements ports.SourceFinder.
func (f *Finder) FindSources(paths, exts []string) ([]string, error) {
	wanted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		wanted[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	var sources []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", p)
		}

		info, err := os.Stat(abs)
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				return nil, zerr.With(zerr.Wrap(domain.ErrSourceNotFound, "path does not exist"), "path", p)
			}
			return nil, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", p)
		}

		if !info.IsDir() {
			sources = append(sources, abs)
			continue
		}

		for file := range f.walker.WalkFiles(abs) {
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file), "."))
			if _, ok := wanted[ext]; ok {
				sources = append(sources, file)
			}
		}
	}

	slices.Sort(sources)
	return slices.Compact(sources), nil
}
