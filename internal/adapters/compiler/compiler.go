// Package compiler drives the C++ toolchain: include traces of translation
// units and isolated compiles of single headers, both memoized in the cache.
package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/hdrcost/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	opTrace = "trace"
	opTime  = "time"
)

var _ ports.Compiler = (*Compiler)(nil)

// Config selects the toolchain invocation.
type Config struct {
	// Bin is the compiler driver, e.g. g++.
	Bin string
	// Flags are passed to every invocation, in order.
	Flags []string
	// Dir is the working directory relative header paths resolve against.
	Dir string
	// Timer names the timing method so results of different timers never
	// share a cache entry.
	Timer domain.TimerKind
	// Env holds the environment variables that steer header lookup, as
	// "KEY=VALUE". It only feeds fingerprints; processes inherit the full
	// environment.
	Env []string
}

// toolchainVars change which headers the compiler finds or how it runs.
var toolchainVars = []string{
	"CPATH",
	"CPLUS_INCLUDE_PATH",
	"C_INCLUDE_PATH",
	"COMPILER_PATH",
	"GCC_EXEC_PREFIX",
	"NIX_CFLAGS_COMPILE",
	"SDKROOT",
}

// ToolchainEnv picks the variables in toolchainVars from environ, in a fixed
// order.
func ToolchainEnv(environ []string) []string {
	var env []string
	for _, name := range toolchainVars {
		for _, entry := range slices.Backward(environ) {
			if value, ok := strings.CutPrefix(entry, name+"="); ok {
				env = append(env, name+"="+value)
				break
			}
		}
	}
	return env
}

// Compiler implements ports.Compiler.
type Compiler struct {
	cfg      Config
	executor ports.Executor
	timer    ports.Timer
	cache    ports.Cache
	hasher   ports.Hasher
	tracer   ports.Tracer
}

// New creates a Compiler.
func New(
	cfg Config,
	executor ports.Executor,
	timer ports.Timer,
	cache ports.Cache,
	hasher ports.Hasher,
	tracer ports.Tracer,
) *Compiler {
	return &Compiler{
		cfg:      cfg,
		executor: executor,
		timer:    timer,
		cache:    cache,
		hasher:   hasher,
		tracer:   tracer,
	}
}

// TraceArgs returns the command line that traces source.
func (c *Compiler) TraceArgs(source string) []string {
	args := make([]string, 0, len(c.cfg.Flags)+4)
	args = append(args, c.cfg.Bin, "-E", "-H")
	args = append(args, c.cfg.Flags...)
	return append(args, source)
}

// HeaderArgs returns the command line that compiles a translation unit read
// from stdin.
func (c *Compiler) HeaderArgs() []string {
	args := make([]string, 0, len(c.cfg.Flags)+8)
	args = append(args, c.cfg.Bin)
	args = append(args, c.cfg.Flags...)
	return append(args, "-x", "c++", "-c", "-o", os.DevNull, "-")
}

// IncludeSetArgs returns the command line that lists the headers pulled in by
// a translation unit read from stdin.
func (c *Compiler) IncludeSetArgs() []string {
	args := make([]string, 0, len(c.cfg.Flags)+9)
	args = append(args, c.cfg.Bin)
	args = append(args, c.cfg.Flags...)
	return append(args, "-x", "c++", "-E", "-H", "-o", os.DevNull, "-")
}

// entry is a cached result together with the digests of every file it was
// derived from.
type entry[T any] struct {
	Value  T                 `json:"value"`
	Inputs map[string]string `json:"inputs"`
}

// failedTrace carries the partial trace of a failed run to every caller
// sharing the compute.
type failedTrace struct {
	err    error
	stderr []byte
}

func (f *failedTrace) Error() string { return f.err.Error() }

func (f *failedTrace) Unwrap() error { return f.err }

// Trace implements ports.Compiler. A cached trace is reused only while the
// source and every header it names are unchanged.
func (c *Compiler) Trace(ctx context.Context, source string) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "trace "+source)
	defer span.End()
	span.SetAttribute("source", source)

	args := c.TraceArgs(source)
	fp := domain.NewFingerprint(opTrace, append(slices.Clone(args), c.cfg.Env...)...)

	computed := false
	data, err := c.cache.GetValidOrCompute(ctx, fp, c.current, func(ctx context.Context) ([]byte, error) {
		computed = true
		var stderr bytes.Buffer
		cmd := &domain.Command{Args: args, Dir: c.cfg.Dir}
		if _, err := c.executor.Execute(ctx, cmd, io.Discard, &stderr); err != nil {
			return nil, &failedTrace{err: err, stderr: stderr.Bytes()}
		}
		inputs := append([]string{source}, domain.IncludedHeaders(stderr.Bytes())...)
		return encode(entry[[]byte]{Value: stderr.Bytes(), Inputs: c.digests(inputs)})
	})
	span.SetAttribute("cached", !computed)

	if err != nil {
		span.RecordError(err)
		var failed *failedTrace
		if errors.As(err, &failed) && errors.Is(err, domain.ErrCommandFailed) {
			return failed.stderr, zerr.With(zerr.Wrap(domain.ErrTraceFailed, filepath.Base(source)), "source", source)
		}
		return nil, err
	}

	var e entry[[]byte]
	if err := json.Unmarshal(data, &e); err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrEntryDecodeFailed.Error()), "source", source)
		span.RecordError(err)
		return nil, err
	}
	return e.Value, nil
}

// TimeHeader implements ports.Compiler. A cached timing is reused only while
// the header and everything it includes are unchanged.
func (c *Compiler) TimeHeader(ctx context.Context, header string) (domain.TimingResult, error) {
	ctx, span := c.tracer.Start(ctx, "time "+header)
	defer span.End()
	span.SetAttribute("header", header)

	args := c.HeaderArgs()
	key := append([]string{string(c.cfg.Timer), header}, args...)
	key = append(key, c.cfg.Env...)
	fp := domain.NewFingerprint(opTime, key...)

	computed := false
	data, err := c.cache.GetValidOrCompute(ctx, fp, c.current, func(ctx context.Context) ([]byte, error) {
		computed = true
		inputs, err := c.includeSet(ctx, header)
		if err != nil {
			return nil, err
		}

		cmd := &domain.Command{
			Args:  args,
			Dir:   c.cfg.Dir,
			Stdin: IncludeUnit(header),
		}
		res, err := c.timer.Time(ctx, cmd, span)
		if err != nil {
			return nil, err
		}
		return encode(entry[domain.TimingResult]{Value: res, Inputs: c.digests(inputs)})
	})
	span.SetAttribute("cached", !computed)
	if err != nil {
		span.RecordError(err)
		return domain.TimingResult{}, err
	}

	var e entry[domain.TimingResult]
	if err := json.Unmarshal(data, &e); err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrEntryDecodeFailed.Error()), "header", header)
		span.RecordError(err)
		return domain.TimingResult{}, err
	}

	res := e.Value
	if !res.OK() {
		span.RecordError(zerr.With(zerr.New("header does not compile in isolation"), "header", header))
		return res, nil
	}
	span.SetAttribute("cpu_time", res.CPUTime())
	return res, nil
}

// includeSet returns header and every header it pulls in. A header that does
// not preprocess cleanly still reports what was opened before the error.
func (c *Compiler) includeSet(ctx context.Context, header string) ([]string, error) {
	var stderr bytes.Buffer
	cmd := &domain.Command{
		Args:  c.IncludeSetArgs(),
		Dir:   c.cfg.Dir,
		Stdin: IncludeUnit(header),
	}
	if _, err := c.executor.Execute(ctx, cmd, io.Discard, &stderr); err != nil && !errors.Is(err, domain.ErrCommandFailed) {
		return nil, err
	}
	return append([]string{header}, domain.IncludedHeaders(stderr.Bytes())...), nil
}

// IncludeUnit is the one-line translation unit that includes header.
func IncludeUnit(header string) []byte {
	return []byte("#include \"" + header + "\"\n")
}

func encode(v any) ([]byte, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrEntryEncodeFailed.Error())
	}
	return out, nil
}

func (c *Compiler) digests(paths []string) map[string]string {
	sums := make(map[string]string, len(paths))
	for _, path := range paths {
		sums[path] = c.digest(path)
	}
	return sums
}

// current reports whether every input recorded in a cached entry still has
// the recorded content. Entries that do not decode are stale.
func (c *Compiler) current(data []byte) bool {
	var e struct {
		Inputs map[string]string `json:"inputs"`
	}
	if err := json.Unmarshal(data, &e); err != nil || e.Inputs == nil {
		return false
	}
	for path, sum := range e.Inputs {
		if c.digest(path) != sum {
			return false
		}
	}
	return true
}

// digest identifies the content of path. Unreadable files get a fixed
// marker, so a file that appears or disappears also changes the digest.
func (c *Compiler) digest(path string) string {
	if !filepath.IsAbs(path) && c.cfg.Dir != "" {
		path = filepath.Join(c.cfg.Dir, path)
	}
	sum, err := c.hasher.FileDigest(path)
	if err != nil {
		return "unreadable"
	}
	return strconv.FormatUint(sum, 16)
}
