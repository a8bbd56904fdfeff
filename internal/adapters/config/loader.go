// Package config provides the configuration loader for hdrcost.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/hdrcost/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the configuration at path, or hdrcost.yaml in cwd when path is
// empty. Values missing from the file keep their defaults.
func (l *Loader) Load(cwd, path string) (domain.Options, error) {
	opts := domain.DefaultOptions()
	opts.CacheDir = resolveDir(cwd, opts.CacheDir)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(cwd, domain.ConfigFileName)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return opts, nil
		}
		return domain.Options{}, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	file, err := parse(data)
	if err != nil {
		return domain.Options{}, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	file.apply(&opts, filepath.Dir(path))
	return opts, nil
}

func parse(data []byte) (*File, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &file, nil
}

// resolveDir makes dir absolute against base. Empty stays empty, which
// disables the cache.
func resolveDir(base, dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}
