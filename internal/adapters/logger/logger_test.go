package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hdrcost/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger returns a logger writing uncolored output into a buffer.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Golden(t *testing.T) {
	tests := []struct {
		name string
		log  func(*logger.Logger)
	}{
		{
			name: "info_basic",
			log:  func(l *logger.Logger) { l.Info("traced 12 sources") },
		},
		{
			name: "warn_basic",
			log:  func(l *logger.Logger) { l.Warn("header timing failed: /usr/include/broken.h") },
		},
		{
			name: "error_chain",
			log: func(l *logger.Logger) {
				l.Error(zerr.Wrap(errors.New("exit status 1"), "include trace failed"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("hello")
	lg.Error(errors.New("boom"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "INFO", rec["level"])

	require.NoError(t, json.Unmarshal(lines[1], &rec))
	assert.Equal(t, "operation failed", rec["msg"])
	assert.Equal(t, "boom", rec["error"])
}

func TestLogger_SetOutputKeepsMode(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetJSON(true)

	buf := &bytes.Buffer{}
	lg.SetOutput(buf)
	lg.Warn("careful")

	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestPrettyHandler_DomainAttributes(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Chdir(dir)

	buf := &bytes.Buffer{}
	log := slog.New(logger.NewPrettyHandler(buf, nil))
	log.With("source", filepath.Join(dir, "src", "a.cpp")).
		Warn("header timing failed", "header", filepath.Join(dir, "inc", "a.h"), "cpu_time", 1500*time.Millisecond)

	assert.Equal(t, "! header timing failed source=src/a.cpp header=inc/a.h cpu_time=1.500s\n", buf.String())
}
