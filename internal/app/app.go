// Package app implements the application layer for hdrcost.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/hdrcost/internal/adapters/cas"
	"go.trai.ch/hdrcost/internal/adapters/compiler"
	"go.trai.ch/hdrcost/internal/adapters/detector"
	"go.trai.ch/hdrcost/internal/adapters/linear"
	"go.trai.ch/hdrcost/internal/adapters/telemetry"
	"go.trai.ch/hdrcost/internal/adapters/timing"
	"go.trai.ch/hdrcost/internal/adapters/watcher"
	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/hdrcost/internal/core/ports"
	"go.trai.ch/hdrcost/internal/engine/analysis"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	logger       ports.Logger
	hasher       ports.Hasher
	finder       ports.SourceFinder
	reportWriter ports.ReportWriter
	watcher      ports.Watcher
	stdout       io.Writer
	stderr       io.Writer
	debounce     time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	log ports.Logger,
	hasher ports.Hasher,
	finder ports.SourceFinder,
	reportWriter ports.ReportWriter,
	w ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       log,
		hasher:       hasher,
		finder:       finder,
		reportWriter: reportWriter,
		watcher:      w,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		debounce:     watcher.DefaultDebounceWindow,
	}
}

// WithOutput redirects the report and the progress output.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithDebounce sets how long watch mode waits for edits to settle.
func (a *App) WithDebounce(d time.Duration) *App {
	a.debounce = d
	return a
}

// AnalyzeOptions configuration for the Analyze method.
type AnalyzeOptions struct {
	// ConfigPath names the config file. Empty means hdrcost.yaml in the
	// working directory, if present.
	ConfigPath string
	Overrides  Overrides
	NoCache    bool
	// Format is the report format, text or json.
	Format     string
	OutputMode string
	Watch      bool
}

// Analyze measures the header costs of the sources under paths and writes
// the report. With opts.Watch it keeps re-running on every change until ctx
// is done.
func (a *App) Analyze(ctx context.Context, paths []string, opts AnalyzeOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to get working directory")
	}

	options, err := a.configLoader.Load(cwd, opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	if err := opts.Overrides.Apply(&options, cwd); err != nil {
		return err
	}
	if opts.NoCache {
		options.CacheDir = ""
	}
	if err := options.Validate(); err != nil {
		return err
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}

	run := runConfig{cwd: cwd, paths: paths, options: options, format: opts.Format, outputMode: opts.OutputMode}
	if !opts.Watch {
		return a.analyzeOnce(ctx, run)
	}
	return a.watch(ctx, run)
}

type runConfig struct {
	cwd        string
	paths      []string
	options    domain.Options
	format     string
	outputMode string
}

func (a *App) analyzeOnce(ctx context.Context, run runConfig) error {
	sources, err := a.finder.FindSources(run.paths, run.options.Extensions)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return zerr.With(domain.ErrNoSources, "extensions", strings.Join(run.options.Extensions, ","))
	}

	tracer, shutdown := a.newTracer(ctx, run.outputMode)
	defer shutdown()

	comp := compiler.New(
		compiler.Config{
			Bin:   run.options.Compiler,
			Flags: run.options.Flags,
			Dir:   run.cwd,
			Timer: run.options.Timer,
			Env:   compiler.ToolchainEnv(os.Environ()),
		},
		a.executor,
		timing.New(run.options.Timer, run.options.Harness, a.executor),
		cas.NewStore(run.options.CacheDir),
		a.hasher,
		tracer,
	)

	report, err := analysis.NewPipeline(comp, a.logger).Run(ctx, sources, run.options)
	if err != nil {
		return errors.Join(domain.ErrAnalysisFailed, err)
	}

	// Progress output must be complete before the report is printed.
	shutdown()
	return a.reportWriter.Write(a.stdout, report, run.format)
}

// newTracer returns the tracer for one run and a function that flushes its
// output. The function may be called more than once.
func (a *App) newTracer(ctx context.Context, outputMode string) (ports.Tracer, func()) {
	mode := detector.ResolveMode(detector.DetectEnvironment(), outputMode)
	if mode != detector.ModeProgress {
		return telemetry.NewNoOpTracer(), func() {}
	}

	renderer := linear.NewRenderer(a.stderr)
	_ = renderer.Start(ctx)

	provider := telemetry.NewProvider(renderer)
	tracer := telemetry.NewOTelTracer("hdrcost", provider).WithRenderer(renderer)

	done := false
	return tracer, func() {
		if done {
			return
		}
		done = true
		flushCtx := context.WithoutCancel(ctx)
		_ = provider.Shutdown(flushCtx)
		_ = tracer.Shutdown(flushCtx)
		_ = renderer.Stop()
	}
}

// watch runs the analysis, then again after every settled burst of changes.
// Failed runs are logged and do not end watch mode.
func (a *App) watch(ctx context.Context, run runConfig) error {
	analyze := func() {
		if err := a.analyzeOnce(ctx, run); err != nil && ctx.Err() == nil {
			a.logger.Error(err)
		}
	}

	if err := a.watcher.Start(ctx, watchRoots(run.paths)...); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	rerun := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(a.debounce, func(paths []string) {
		select {
		case rerun <- paths:
		default:
		}
	})
	defer debouncer.Stop()

	go func() {
		for event := range a.watcher.Events() {
			if !within(event.Path, run.options.CacheDir) {
				debouncer.Add(event.Path)
			}
		}
	}()

	analyze()
	a.logger.Info("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-rerun:
			a.logger.Info(fmt.Sprintf("%d changed, analyzing again", len(changed)))
			analyze()
		}
	}
}

// watchRoots returns the directories to watch for paths: directories as
// given, and the parent directory of every file.
func watchRoots(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		root := p
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			root = filepath.Dir(p)
		}
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}
	return roots
}

// within reports whether path lies in dir. An empty dir contains nothing.
func within(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ConfigPath string
	// All removes the whole .hdrcost directory, not only the cache.
	All bool
}

// Clean removes persisted results.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to get working directory")
	}

	opts, err := a.configLoader.Load(cwd, options.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	var errs error
	remove := func(path string, name string) {
		if path == "" {
			return
		}
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(opts.CacheDir, "result cache")
	if options.All {
		remove(filepath.Join(cwd, domain.DefaultHdrcostPath()), "hdrcost directory")
	}
	return errs
}
