package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/hdrcost/internal/core/ports"
)

// LogBufferSize determines the size of the async log channel.
const LogBufferSize = 4096

var (
	_ ports.Tracer = (*OTelTracer)(nil)
	_ ports.Span   = (*OTelSpan)(nil)
)

type taskLog struct {
	spanID string
	data   []byte
}

// OTelTracer is a ports.Tracer backed by OpenTelemetry. Span output is
// delivered to the renderer from a single goroutine, in write order per span.
type OTelTracer struct {
	tracer trace.Tracer

	mu       sync.RWMutex
	renderer ports.Renderer
	closed   bool
	logChan  chan taskLog
	done     chan struct{}
}

// NewOTelTracer creates a tracer named name on provider. A nil provider
// means the global one.
func NewOTelTracer(name string, provider trace.TracerProvider) *OTelTracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	t := &OTelTracer{
		tracer:  provider.Tracer(name),
		logChan: make(chan taskLog, LogBufferSize),
		done:    make(chan struct{}),
	}
	go t.runLoop()
	return t
}

// WithRenderer routes span output to r.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderer = r
	return t
}

func (t *OTelTracer) runLoop() {
	defer close(t.done)
	for msg := range t.logChan {
		t.mu.RLock()
		r := t.renderer
		t.mu.RUnlock()

		if r != nil {
			r.OnTaskLog(msg.spanID, msg.data)
		}
	}
}

// Shutdown stops the log loop after draining what was already queued.
func (t *OTelTracer) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.logChan)
	}
	t.mu.Unlock()

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *OTelTracer) send(msg taskLog) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}
	select {
	case t.logChan <- msg:
	default:
		// Drop output rather than stall an invocation.
	}
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	ctx, span := t.tracer.Start(ctx, name)

	t.mu.RLock()
	hasRenderer := t.renderer != nil
	t.mu.RUnlock()

	var batcher *LineBatcher
	if hasRenderer {
		spanID := span.SpanContext().SpanID().String()
		batcher = NewLineBatcher(0, 0, func(data []byte) {
			t.send(taskLog{spanID: spanID, data: data})
		})
	}

	return ctx, &OTelSpan{span: span, batcher: batcher}
}

// OTelSpan is a ports.Span backed by OpenTelemetry.
type OTelSpan struct {
	span    trace.Span
	batcher *LineBatcher
}

// End completes the span.
func (s *OTelSpan) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
	}
	s.span.End()
}

// RecordError records an error for the span and marks it failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case time.Duration:
		s.span.SetAttributes(attribute.String(key, v.String()))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write satisfies io.Writer by forwarding to the renderer, or recording a
// span event when there is none.
func (s *OTelSpan) Write(p []byte) (int, error) {
	if s.batcher != nil {
		return s.batcher.Write(p)
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}
