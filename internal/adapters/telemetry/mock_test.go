package telemetry_test

import (
	"context"
	"sync"
	"time"
)

// recordingRenderer is a simple test double for ports.Renderer.
type recordingRenderer struct {
	mu        sync.Mutex
	started   []string
	completed map[string]error
	cached    map[string]bool
	logs      map[string][]byte
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{
		completed: make(map[string]error),
		cached:    make(map[string]bool),
		logs:      make(map[string][]byte),
	}
}

func (r *recordingRenderer) Start(_ context.Context) error { return nil }
func (r *recordingRenderer) Stop() error                   { return nil }

func (r *recordingRenderer) OnTaskStart(_, _, name string, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, name)
}

func (r *recordingRenderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[spanID] = append(r.logs[spanID], data...)
}

func (r *recordingRenderer) OnTaskComplete(spanID string, _ time.Time, cached bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed[spanID] = err
	r.cached[spanID] = cached
}

func (r *recordingRenderer) logFor(spanID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return string(r.logs[spanID])
}
