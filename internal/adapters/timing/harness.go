package timing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/hdrcost/internal/core/ports"
	"go.trai.ch/zerr"
)

// HarnessFormat asks GNU time for exit status, elapsed, user and system
// seconds, major and minor faults and max RSS in KB, in that order.
const HarnessFormat = "%x %e %U %S %F %R %M"

const harnessFields = 7

var _ ports.Timer = (*Harness)(nil)

// Harness times a process by running it under an external timing program
// compatible with GNU time's -f and -o flags.
type Harness struct {
	program  string
	executor ports.Executor
}

// NewHarness creates a Harness timer using program.
func NewHarness(program string, executor ports.Executor) *Harness {
	return &Harness{program: program, executor: executor}
}

// Time implements ports.Timer.
func (h *Harness) Time(ctx context.Context, cmd *domain.Command, stderr io.Writer) (domain.TimingResult, error) {
	f, err := os.CreateTemp("", "hdrcost-time-*")
	if err != nil {
		return domain.TimingResult{}, zerr.Wrap(err, "failed to create harness output file")
	}
	out := f.Name()
	_ = f.Close()
	defer func() { _ = os.Remove(out) }()

	args := make([]string, 0, len(cmd.Args)+5)
	args = append(args, h.program, "-f", HarnessFormat, "-o", out)
	args = append(args, cmd.Args...)

	wrapped := &domain.Command{
		Args:  args,
		Dir:   cmd.Dir,
		Env:   cmd.Env,
		Stdin: cmd.Stdin,
	}

	if _, err := h.executor.Execute(ctx, wrapped, io.Discard, stderr); err != nil {
		if errors.Is(err, domain.ErrCommandFailed) {
			return domain.FailedTiming(), nil
		}
		return domain.TimingResult{}, err
	}

	data, err := os.ReadFile(out) //nolint:gosec // path comes from os.CreateTemp
	if err != nil {
		return domain.TimingResult{}, zerr.Wrap(err, "failed to read harness output")
	}
	return ParseHarnessOutput(data)
}

// ParseHarnessOutput decodes the last non-empty line written with
// HarnessFormat. A non-zero exit status yields the failure sentinel.
func ParseHarnessOutput(data []byte) (domain.TimingResult, error) {
	lines := strings.Split(string(bytes.TrimSpace(data)), "\n")
	line := strings.TrimSpace(lines[len(lines)-1])

	fields := strings.Fields(line)
	if len(fields) != harnessFields {
		return domain.TimingResult{}, zerr.With(domain.ErrHarnessOutputInvalid, "line", line)
	}

	exit, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.TimingResult{}, zerr.With(zerr.Wrap(err, domain.ErrHarnessOutputInvalid.Error()), "field", "exit")
	}
	if exit != 0 {
		return domain.FailedTiming(), nil
	}

	var secs [3]time.Duration
	for i := range secs {
		v, err := strconv.ParseFloat(fields[1+i], 64)
		if err != nil {
			return domain.TimingResult{}, zerr.With(zerr.Wrap(err, domain.ErrHarnessOutputInvalid.Error()), "field", fields[1+i])
		}
		secs[i] = time.Duration(math.Round(v * float64(time.Second)))
	}

	var counts [3]int64
	for i := range counts {
		v, err := strconv.ParseInt(fields[4+i], 10, 64)
		if err != nil {
			return domain.TimingResult{}, zerr.With(zerr.Wrap(err, domain.ErrHarnessOutputInvalid.Error()), "field", fields[4+i])
		}
		counts[i] = v
	}

	return domain.TimingResult{
		ExitStatus:  0,
		WallTime:    secs[0],
		UserTime:    secs[1],
		SysTime:     secs[2],
		MajorFaults: counts[0],
		MinorFaults: counts[1],
		MaxRSS:      counts[2],
	}, nil
}
