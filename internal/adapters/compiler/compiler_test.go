package compiler_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hdrcost/internal/adapters/cas"
	"go.trai.ch/hdrcost/internal/adapters/compiler"
	"go.trai.ch/hdrcost/internal/adapters/fs"
	"go.trai.ch/hdrcost/internal/adapters/telemetry"
	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/hdrcost/internal/core/ports"
	"go.trai.ch/hdrcost/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	dir      string
	ctrl     *gomock.Controller
	executor *mocks.MockExecutor
	timer    *mocks.MockTimer
	store    *cas.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	return &fixture{
		dir:      t.TempDir(),
		ctrl:     ctrl,
		executor: mocks.NewMockExecutor(ctrl),
		timer:    mocks.NewMockTimer(ctrl),
		store:    cas.NewStore(t.TempDir()),
	}
}

func (f *fixture) config() compiler.Config {
	return compiler.Config{
		Bin:   "g++",
		Flags: []string{"-std=c++20", "-Iinclude"},
		Dir:   f.dir,
		Timer: domain.TimerHarness,
	}
}

func (f *fixture) compiler(cfg compiler.Config) *compiler.Compiler {
	return compiler.New(cfg, f.executor, f.timer, f.store, fs.NewHasher(), telemetry.NewNoOpTracer())
}

// write creates name under the fixture directory and returns its path.
func (f *fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run answers compiler invocations with the diagnostics fn chooses.
func (f *fixture) run(fn func(cmd *domain.Command) (string, error)) *gomock.Call {
	return f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command, _, stderr io.Writer) (*domain.ExitInfo, error) {
			out, err := fn(cmd)
			_, _ = io.WriteString(stderr, out)
			if err != nil {
				return &domain.ExitInfo{ExitCode: 1}, err
			}
			return &domain.ExitInfo{}, nil
		})
}

func isIncludeSet(cmd *domain.Command) bool {
	return cmd.Args[len(cmd.Args)-1] == "-" && strings.Contains(strings.Join(cmd.Args, " "), "-E -H")
}

func TestCompiler_Args(t *testing.T) {
	f := newFixture(t)
	cfg := f.config()
	cfg.Dir = "/work"
	c := f.compiler(cfg)

	assert.Equal(t,
		[]string{"g++", "-E", "-H", "-std=c++20", "-Iinclude", "/work/src/main.cpp"},
		c.TraceArgs("/work/src/main.cpp"))
	assert.Equal(t,
		[]string{"g++", "-std=c++20", "-Iinclude", "-x", "c++", "-c", "-o", os.DevNull, "-"},
		c.HeaderArgs())
	assert.Equal(t,
		[]string{"g++", "-std=c++20", "-Iinclude", "-x", "c++", "-E", "-H", "-o", os.DevNull, "-"},
		c.IncludeSetArgs())
	assert.Equal(t, "#include \"/usr/include/vector\"\n", string(compiler.IncludeUnit("/usr/include/vector")))
}

func TestCompiler_Trace(t *testing.T) {
	f := newFixture(t)
	c := f.compiler(f.config())
	src := f.write(t, "src/main.cpp", "#include \"a.h\"\n")
	f.write(t, "include/a.h", "#include <vector>\n")
	trace := ". include/a.h\n.. /usr/include/vector\n"

	f.run(func(cmd *domain.Command) (string, error) {
		assert.Equal(t, c.TraceArgs(src), cmd.Args)
		assert.Equal(t, f.dir, cmd.Dir)
		return trace, nil
	}).Times(1)

	out, err := c.Trace(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, trace, string(out))

	// Second call is served from the cache.
	out, err = c.Trace(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, trace, string(out))
}

func TestCompiler_Trace_SourceEditInvalidates(t *testing.T) {
	f := newFixture(t)
	c := f.compiler(f.config())
	src := f.write(t, "a.cpp", "int a;\n")

	f.run(func(*domain.Command) (string, error) { return "", nil }).Times(2)

	_, err := c.Trace(context.Background(), src)
	require.NoError(t, err)

	f.write(t, "a.cpp", "int a = 1;\n")
	_, err = c.Trace(context.Background(), src)
	require.NoError(t, err)
}

func TestCompiler_Trace_IncludedHeaderEditInvalidates(t *testing.T) {
	f := newFixture(t)
	c := f.compiler(f.config())
	src := f.write(t, "a.cpp", "#include \"h.h\"\n")
	hdr := f.write(t, "h.h", "vector")

	// The trace lists whatever h.h currently includes.
	f.run(func(*domain.Command) (string, error) {
		data, err := os.ReadFile(hdr)
		require.NoError(t, err)
		return ". " + hdr + "\n.. " + string(data) + "\n", nil
	}).Times(2)

	out, err := c.Trace(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, ". "+hdr+"\n.. vector\n", string(out))

	f.write(t, "h.h", "map")
	out, err = c.Trace(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, ". "+hdr+"\n.. map\n", string(out))

	// Unchanged again: cached.
	out, err = c.Trace(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, ". "+hdr+"\n.. map\n", string(out))
}

func TestCompiler_Trace_RemovedHeaderInvalidates(t *testing.T) {
	f := newFixture(t)
	c := f.compiler(f.config())
	src := f.write(t, "a.cpp", "")
	f.write(t, "include/gone.h", "")

	f.run(func(*domain.Command) (string, error) { return ". include/gone.h\n", nil }).Times(2)

	_, err := c.Trace(context.Background(), src)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(f.dir, "include", "gone.h")))
	_, err = c.Trace(context.Background(), src)
	require.NoError(t, err)
}

func TestCompiler_Trace_Failure(t *testing.T) {
	f := newFixture(t)
	c := f.compiler(f.config())
	src := f.write(t, "main.cpp", "")

	f.run(func(*domain.Command) (string, error) {
		return ". a.h\nmain.cpp:3: error: missing.h: No such file\n", zerr.Wrap(domain.ErrCommandFailed, "g++ exited with status 1")
	}).Times(2)

	out, err := c.Trace(context.Background(), src)
	require.ErrorIs(t, err, domain.ErrTraceFailed)
	assert.Contains(t, string(out), ". a.h\n")

	// Partial output is never cached: the trace runs again.
	_, err = c.Trace(context.Background(), src)
	require.ErrorIs(t, err, domain.ErrTraceFailed)
}

func TestCompiler_Trace_FailureReachesCoalescedCallers(t *testing.T) {
	f := newFixture(t)
	cache := mocks.NewMockCache(f.ctrl)
	c := compiler.New(f.config(), f.executor, f.timer, cache, fs.NewHasher(), telemetry.NewNoOpTracer())
	src := f.write(t, "main.cpp", "")

	// The first caller runs the compute; the second joined it and only
	// receives the shared result.
	var shared error
	gomock.InOrder(
		cache.EXPECT().
			GetValidOrCompute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(
				ctx context.Context,
				_ domain.Fingerprint,
				valid ports.ValidateFunc,
				compute ports.ComputeFunc,
			) ([]byte, error) {
				assert.False(t, valid([]byte("not an entry")))
				_, shared = compute(ctx)
				return nil, shared
			}),
		cache.EXPECT().
			GetValidOrCompute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, domain.Fingerprint, ports.ValidateFunc, ports.ComputeFunc) ([]byte, error) {
				return nil, shared
			}),
	)
	f.run(func(*domain.Command) (string, error) {
		return ". a.h\n", zerr.Wrap(domain.ErrCommandFailed, "g++ exited with status 1")
	}).Times(1)

	for range 2 {
		out, err := c.Trace(context.Background(), src)
		require.ErrorIs(t, err, domain.ErrTraceFailed)
		assert.Equal(t, ". a.h\n", string(out))
	}
}

func TestCompiler_Trace_StartFailure(t *testing.T) {
	f := newFixture(t)
	c := f.compiler(f.config())

	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("exec: \"g++\": executable file not found in $PATH"))

	out, err := c.Trace(context.Background(), filepath.Join(f.dir, "main.cpp"))
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrTraceFailed)
	assert.Nil(t, out)
}

func TestCompiler_TimeHeader(t *testing.T) {
	f := newFixture(t)
	c := f.compiler(f.config())
	hdr := f.write(t, "include/vec.h", "#include <vector>\n")

	want := domain.TimingResult{
		WallTime: 400 * time.Millisecond,
		UserTime: 300 * time.Millisecond,
		SysTime:  50 * time.Millisecond,
		MaxRSS:   90000,
	}

	f.run(func(cmd *domain.Command) (string, error) {
		assert.Equal(t, c.IncludeSetArgs(), cmd.Args)
		assert.Equal(t, "#include \""+hdr+"\"\n", string(cmd.Stdin))
		return ". " + hdr + "\n.. /usr/include/vector\n", nil
	}).Times(1)
	f.timer.EXPECT().
		Time(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command, _ io.Writer) (domain.TimingResult, error) {
			assert.Equal(t, c.HeaderArgs(), cmd.Args)
			assert.Equal(t, "#include \""+hdr+"\"\n", string(cmd.Stdin))
			return want, nil
		}).
		Times(1)

	got, err := c.TimeHeader(context.Background(), hdr)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = c.TimeHeader(context.Background(), hdr)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCompiler_TimeHeader_IncludedHeaderEditInvalidates(t *testing.T) {
	f := newFixture(t)
	c := f.compiler(f.config())
	f.write(t, "include/a.h", "#include \"b.h\"\n")
	f.write(t, "include/b.h", "struct B {};\n")

	f.run(func(*domain.Command) (string, error) {
		return ". include/a.h\n.. include/b.h\n", nil
	}).Times(2)
	f.timer.EXPECT().
		Time(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.TimingResult{UserTime: time.Second}, nil).
		Times(2)

	_, err := c.TimeHeader(context.Background(), "include/a.h")
	require.NoError(t, err)
	_, err = c.TimeHeader(context.Background(), "include/a.h")
	require.NoError(t, err)

	// Only the nested header changes; a.h must be timed again.
	f.write(t, "include/b.h", "struct B { int x[1 << 20]; };\n")
	_, err = c.TimeHeader(context.Background(), "include/a.h")
	require.NoError(t, err)
}

func TestCompiler_TimeHeader_FailedIsCached(t *testing.T) {
	f := newFixture(t)
	c := f.compiler(f.config())
	hdr := f.write(t, "detail/impl.h", "#error internal header\n")

	// The include listing fails too but still names what it opened.
	f.run(func(*domain.Command) (string, error) {
		return ". " + hdr + "\n", zerr.Wrap(domain.ErrCommandFailed, "g++ exited with status 1")
	}).Times(1)
	f.timer.EXPECT().Time(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.FailedTiming(), nil).Times(1)

	for range 2 {
		got, err := c.TimeHeader(context.Background(), hdr)
		require.NoError(t, err)
		assert.Equal(t, domain.FailedTiming(), got)
	}

	// Fixing the header retries it.
	f.run(func(*domain.Command) (string, error) { return ". " + hdr + "\n", nil }).Times(1)
	f.timer.EXPECT().Time(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.TimingResult{}, nil).Times(1)

	f.write(t, "detail/impl.h", "struct Impl {};\n")
	got, err := c.TimeHeader(context.Background(), hdr)
	require.NoError(t, err)
	assert.True(t, got.OK())
}

func TestCompiler_TimeHeader_TimerKindSeparatesEntries(t *testing.T) {
	f := newFixture(t)
	harness := f.compiler(f.config())

	rusageCfg := f.config()
	rusageCfg.Timer = domain.TimerRusage
	rusage := f.compiler(rusageCfg)

	hdr := f.write(t, "a.h", "")
	f.run(func(*domain.Command) (string, error) { return ". " + hdr + "\n", nil }).Times(2)
	f.timer.EXPECT().Time(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.TimingResult{}, nil).Times(2)

	_, err := harness.TimeHeader(context.Background(), hdr)
	require.NoError(t, err)
	_, err = rusage.TimeHeader(context.Background(), hdr)
	require.NoError(t, err)
}

func TestCompiler_TimeHeader_TimerError(t *testing.T) {
	f := newFixture(t)
	c := f.compiler(f.config())
	hdr := f.write(t, "a.h", "")

	f.run(func(*domain.Command) (string, error) { return "", nil })
	f.timer.EXPECT().Time(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.TimingResult{}, context.Canceled)

	_, err := c.TimeHeader(context.Background(), hdr)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCompiler_TimeHeader_IncludeSetStartFailure(t *testing.T) {
	f := newFixture(t)
	c := f.compiler(f.config())

	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command, _, _ io.Writer) (*domain.ExitInfo, error) {
			assert.True(t, isIncludeSet(cmd))
			return nil, domain.ErrCommandStartFailed
		})

	_, err := c.TimeHeader(context.Background(), "a.h")
	require.ErrorIs(t, err, domain.ErrCommandStartFailed)
}

func TestToolchainEnv(t *testing.T) {
	environ := []string{
		"SDKROOT=/old",
		"HOME=/home/dev",
		"CPATH=/opt/include",
		"SDKROOT=/sdk",
		"NIX_CFLAGS_COMPILE=-isystem /nix/store/x/include",
	}

	assert.Equal(t, []string{
		"CPATH=/opt/include",
		"NIX_CFLAGS_COMPILE=-isystem /nix/store/x/include",
		"SDKROOT=/sdk",
	}, compiler.ToolchainEnv(environ))
	assert.Empty(t, compiler.ToolchainEnv([]string{"HOME=/home/dev"}))
}

func TestCompiler_Trace_ToolchainEnvSeparatesEntries(t *testing.T) {
	f := newFixture(t)
	src := f.write(t, "a.cpp", "")

	first := f.config()
	first.Env = []string{"CPATH=/opt/v1/include"}
	second := f.config()
	second.Env = []string{"CPATH=/opt/v2/include"}

	f.run(func(*domain.Command) (string, error) { return "", nil }).Times(2)

	_, err := f.compiler(first).Trace(context.Background(), src)
	require.NoError(t, err)
	_, err = f.compiler(second).Trace(context.Background(), src)
	require.NoError(t, err)
	_, err = f.compiler(first).Trace(context.Background(), src)
	require.NoError(t, err)
}
