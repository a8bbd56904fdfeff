package timing_test

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hdrcost/internal/adapters/timing"
	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/hdrcost/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestParseHarnessOutput(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        domain.TimingResult
		errContains string
	}{
		{
			name:  "successful run",
			input: "0 1.25 0.93 0.12 0 15321 84212\n",
			want: domain.TimingResult{
				WallTime:    1250 * time.Millisecond,
				UserTime:    930 * time.Millisecond,
				SysTime:     120 * time.Millisecond,
				MinorFaults: 15321,
				MaxRSS:      84212,
			},
		},
		{
			name:  "status line before the record",
			input: "Command exited with non-zero status 1\n1 0.01 0.00 0.00 0 120 3000\n",
			want:  domain.FailedTiming(),
		},
		{
			name:  "non-zero exit voids fields",
			input: "2 0.50 0.40 0.05 1 2 3",
			want:  domain.FailedTiming(),
		},
		{
			name:        "wrong field count",
			input:       "0 1.0 0.5",
			errContains: domain.ErrHarnessOutputInvalid.Error(),
		},
		{
			name:        "empty output",
			input:       "",
			errContains: domain.ErrHarnessOutputInvalid.Error(),
		},
		{
			name:        "non-numeric time",
			input:       "0 abc 0.5 0.1 0 0 0",
			errContains: domain.ErrHarnessOutputInvalid.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timing.ParseHarnessOutput([]byte(tt.input))
			if tt.errContains != "" {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// writeHarnessOutput emulates the harness by writing to the file passed with -o.
func writeHarnessOutput(content string) func(context.Context, *domain.Command, io.Writer, io.Writer) (*domain.ExitInfo, error) {
	return func(_ context.Context, cmd *domain.Command, _, _ io.Writer) (*domain.ExitInfo, error) {
		for i, arg := range cmd.Args {
			if arg == "-o" {
				if err := os.WriteFile(cmd.Args[i+1], []byte(content), 0o600); err != nil {
					return nil, err
				}
			}
		}
		return &domain.ExitInfo{}, nil
	}
}

func TestHarness_Time(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	h := timing.NewHarness("/usr/bin/time", executor)

	cmd := &domain.Command{
		Args:  []string{"g++", "-x", "c++", "-c", "-o", "/dev/null", "-"},
		Stdin: []byte("#include \"x.h\"\n"),
	}

	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, wrapped *domain.Command, stdout, stderr io.Writer) (*domain.ExitInfo, error) {
			assert.Equal(t, []string{"/usr/bin/time", "-f", timing.HarnessFormat, "-o"}, wrapped.Args[:4])
			assert.Equal(t, cmd.Args, wrapped.Args[5:])
			assert.Equal(t, cmd.Stdin, wrapped.Stdin)
			return writeHarnessOutput("0 0.30 0.20 0.05 0 100 2048\n")(ctx, wrapped, stdout, stderr)
		})

	res, err := h.Time(context.Background(), cmd, io.Discard)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, 250*time.Millisecond, res.CPUTime())
	assert.Equal(t, int64(2048), res.MaxRSS)
}

func TestHarness_Time_CommandFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	h := timing.NewHarness("/usr/bin/time", executor)

	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.ExitInfo{ExitCode: 1}, zerr.Wrap(domain.ErrCommandFailed, "g++ exited with status 1"))

	res, err := h.Time(context.Background(), &domain.Command{Args: []string{"g++"}}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, domain.FailedTiming(), res)
}

func TestHarness_Time_StartFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	h := timing.NewHarness("/missing/time", executor)

	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("no such file"))

	_, err := h.Time(context.Background(), &domain.Command{Args: []string{"g++"}}, io.Discard)
	require.Error(t, err)
}
