package app

import (
	"path/filepath"

	"go.trai.ch/hdrcost/internal/adapters/config"
	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/zerr"
)

// Overrides holds option values given on the command line. Nil fields keep
// the configured value.
type Overrides struct {
	MinRefs *int
	// MinDuration is seconds or a Go duration, e.g. "0.25" or "250ms".
	MinDuration   *string
	CommonPercent *float64
	Compiler      *string
	// Flags is split into words like a shell would.
	Flags      *string
	CacheDir   *string
	Extensions []string
	Jobs       *int
	Timer      *string
	Harness    *string
}

// Apply writes the set overrides into opts. Relative paths resolve against cwd.
func (o Overrides) Apply(opts *domain.Options, cwd string) error {
	if o.MinRefs != nil {
		opts.MinRefs = *o.MinRefs
	}
	if o.MinDuration != nil {
		d, err := config.ParseDuration(*o.MinDuration)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrInvalidOptions.Error()), "min_duration", *o.MinDuration)
		}
		opts.MinDuration = d
	}
	if o.CommonPercent != nil {
		opts.CommonPercent = *o.CommonPercent
	}
	if o.Compiler != nil {
		opts.Compiler = *o.Compiler
	}
	if o.Flags != nil {
		flags, err := config.SplitFlags(*o.Flags)
		if err != nil {
			return err
		}
		opts.Flags = flags
	}
	if o.CacheDir != nil {
		opts.CacheDir = *o.CacheDir
		if opts.CacheDir != "" && !filepath.IsAbs(opts.CacheDir) {
			opts.CacheDir = filepath.Join(cwd, opts.CacheDir)
		}
	}
	if len(o.Extensions) > 0 {
		opts.Extensions = o.Extensions
	}
	if o.Jobs != nil {
		opts.Jobs = *o.Jobs
	}
	if o.Timer != nil {
		opts.Timer = domain.TimerKind(*o.Timer)
	}
	if o.Harness != nil {
		opts.Harness = *o.Harness
	}
	return nil
}
