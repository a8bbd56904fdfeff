// Package shell runs external processes and reports their resource usage.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/hdrcost/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// tailLines is how many trailing stderr lines are logged for a failed process.
const tailLines = 20

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Execute runs cmd and waits for it to exit.
func (e *Executor) Execute(
	ctx context.Context,
	cmd *domain.Command,
	stdout, stderr io.Writer,
) (*domain.ExitInfo, error) {
	if cmd == nil || len(cmd.Args) == 0 {
		return nil, domain.ErrEmptyCommand
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	name := cmd.Args[0]
	env := resolveEnvironment(os.Environ(), cmd.Env)

	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // user provided command
	c.Args[0] = name
	c.Dir = cmd.Dir
	c.Env = env
	if cmd.Stdin != nil {
		c.Stdin = bytes.NewReader(cmd.Stdin)
	}

	tail := &tailWriter{max: tailLines}
	c.Stdout = stdout
	c.Stderr = io.MultiWriter(stderr, tail)

	start := time.Now()
	if err := c.Start(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCommandStartFailed.Error()), "command", name)
	}
	err := c.Wait()
	info := &domain.ExitInfo{
		ExitCode: exitCode(err),
		WallTime: time.Since(start),
	}
	if c.ProcessState != nil {
		fillRusage(info, c.ProcessState)
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return info, ctxErr
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return info, zerr.With(zerr.Wrap(err, "wait failed"), "command", name)
		}
		for _, line := range tail.Lines() {
			e.logger.Warn(fmt.Sprintf("%s: %s", filepath.Base(name), line))
		}
		failure := zerr.Wrap(domain.ErrCommandFailed, fmt.Sprintf("%s exited with status %d", name, info.ExitCode))
		return info, zerr.With(failure, "exit_code", info.ExitCode)
	}

	return info, nil
}

// exitCode extracts the process exit status from a Wait error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var eerr *exec.ExitError
	if !errors.As(err, &eerr) {
		return 1
	}
	if w, ok := eerr.Sys().(syscall.WaitStatus); ok && w.Exited() {
		return w.ExitStatus()
	}
	if code := eerr.ExitCode(); code > 0 {
		return code
	}
	return 1
}

// tailWriter keeps the last max complete lines written to it.
type tailWriter struct {
	max     int
	lines   []string
	partial []byte
}

func (w *tailWriter) Write(p []byte) (int, error) {
	w.partial = append(w.partial, p...)
	for {
		i := bytes.IndexByte(w.partial, '\n')
		if i < 0 {
			break
		}
		w.push(string(w.partial[:i]))
		w.partial = w.partial[i+1:]
	}
	return len(p), nil
}

func (w *tailWriter) push(line string) {
	line = strings.TrimSuffix(line, "\r")
	if line == "" {
		return
	}
	w.lines = append(w.lines, line)
	if len(w.lines) > w.max {
		w.lines = w.lines[len(w.lines)-w.max:]
	}
}

// Lines returns the retained lines, including a trailing partial one.
func (w *tailWriter) Lines() []string {
	if len(w.partial) > 0 {
		w.push(string(w.partial))
		w.partial = nil
	}
	return w.lines
}

// resolveEnvironment layers extra "KEY=VALUE" entries over sysEnv. The
// compiler sees the full calling environment, as it would in a real build.
func resolveEnvironment(sysEnv, extra []string) []string {
	envMap := make(map[string]string)
	var order []string
	set := func(entry string) {
		k, v, ok := strings.Cut(entry, "=")
		if !ok || k == "" {
			return
		}
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	for _, entry := range sysEnv {
		set(entry)
	}
	for _, entry := range extra {
		set(entry)
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches PATH taken from env rather than from the current process.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
