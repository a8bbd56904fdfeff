// Package telemetry bridges OpenTelemetry spans around external invocations
// to a progress renderer.
package telemetry

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

const (
	// DefaultSizeLimit is the buffered byte count that forces a flush.
	DefaultSizeLimit = 4096
	// DefaultTimeLimit is the interval after which complete lines are flushed.
	DefaultTimeLimit = 50 * time.Millisecond
)

var errBatcherClosed = errors.New("line batcher is closed")

// LineBatcher buffers compiler diagnostics and hands them on in whole lines,
// either when the buffer grows past sizeLimit or every timeLimit. A partial
// trailing line is held back until it is completed or the batcher is closed.
// It is safe for concurrent use.
type LineBatcher struct {
	sizeLimit int
	timeLimit time.Duration
	onFlush   func([]byte)

	mu     sync.Mutex
	buffer bytes.Buffer
	ticker *time.Ticker
	stopCh chan struct{}
	closed bool
}

// NewLineBatcher returns a running LineBatcher. Non-positive limits fall back
// to the defaults. Close must be called to stop the background flusher.
func NewLineBatcher(sizeLimit int, timeLimit time.Duration, onFlush func([]byte)) *LineBatcher {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	b := &LineBatcher{
		sizeLimit: sizeLimit,
		timeLimit: timeLimit,
		onFlush:   onFlush,
		ticker:    time.NewTicker(timeLimit),
		stopCh:    make(chan struct{}),
	}
	go b.run()
	return b
}

// Write appends p to the buffer.
func (b *LineBatcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errBatcherClosed
	}

	n, _ := b.buffer.Write(p)
	if b.buffer.Len() >= b.sizeLimit {
		// An overlong line is flushed whole rather than held forever.
		b.flushLocked(true)
		b.ticker.Reset(b.timeLimit)
	}
	return n, nil
}

// Flush hands on every complete line buffered so far.
func (b *LineBatcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.flushLocked(false)
}

// Close stops the flusher and hands on everything that is left, including a
// partial last line.
func (b *LineBatcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	close(b.stopCh)
	b.flushLocked(true)
	return nil
}

func (b *LineBatcher) run() {
	for {
		select {
		case <-b.ticker.C:
			b.Flush()
		case <-b.stopCh:
			b.ticker.Stop()
			return
		}
	}
}

// flushLocked must be called with mu held.
func (b *LineBatcher) flushLocked(all bool) {
	end := b.buffer.Len()
	if !all {
		end = bytes.LastIndexByte(b.buffer.Bytes(), '\n') + 1
	}
	if end == 0 {
		return
	}

	data := make([]byte, end)
	copy(data, b.buffer.Next(end))

	if b.onFlush != nil {
		b.onFlush(data)
	}
}
