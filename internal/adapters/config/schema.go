package config

import (
	"strconv"
	"time"

	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// File represents the structure of the hdrcost.yaml configuration file.
// Pointer fields distinguish "absent" from an explicit zero value.
type File struct {
	Compiler    string    `yaml:"compiler"`
	Flags       FlagList  `yaml:"flags"`
	MinRefs     *int      `yaml:"min_refs"`
	MinDuration *Duration `yaml:"min_duration"`
	CommonPct   *float64  `yaml:"common_pct"`
	CacheDir    *string   `yaml:"cache_dir"`
	Extensions  []string  `yaml:"extensions"`
	Jobs        *int      `yaml:"jobs"`
	Timer       string    `yaml:"timer"`
	Harness     string    `yaml:"harness"`
}

// FlagList accepts either a YAML sequence of flags or a single shell-style
// string that is split into words.
type FlagList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FlagList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		words, err := SplitFlags(node.Value)
		if err != nil {
			return err
		}
		*f = words
		return nil
	}

	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*f = list
	return nil
}

// Duration accepts Go duration syntax ("150ms") or a plain number of seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return zerr.With(zerr.New("duration must be a scalar"), "line", node.Line)
	}

	parsed, err := ParseDuration(node.Value)
	if err != nil {
		return zerr.With(err, "line", node.Line)
	}
	*d = Duration(parsed)
	return nil
}

// ParseDuration parses "150ms"-style durations and bare seconds ("0.25").
func ParseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "invalid duration"), "value", s)
	}
	return d, nil
}

// apply layers the values present in the file over opts. Relative cache
// directories resolve against base.
func (f *File) apply(opts *domain.Options, base string) {
	if f.Compiler != "" {
		opts.Compiler = f.Compiler
	}
	if f.Flags != nil {
		opts.Flags = []string(f.Flags)
	}
	if f.MinRefs != nil {
		opts.MinRefs = *f.MinRefs
	}
	if f.MinDuration != nil {
		opts.MinDuration = time.Duration(*f.MinDuration)
	}
	if f.CommonPct != nil {
		opts.CommonPercent = *f.CommonPct
	}
	if f.CacheDir != nil {
		opts.CacheDir = resolveDir(base, *f.CacheDir)
	}
	if len(f.Extensions) > 0 {
		opts.Extensions = f.Extensions
	}
	if f.Jobs != nil {
		opts.Jobs = *f.Jobs
	}
	if f.Timer != "" {
		opts.Timer = domain.TimerKind(f.Timer)
	}
	if f.Harness != "" {
		opts.Harness = f.Harness
	}
}
