package telemetry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/hdrcost/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// cachedKey marks a compiler invocation answered from the result cache.
const cachedKey = attribute.Key("cached")

// Bridge forwards compiler invocation spans to a Renderer. Span names are
// "<operation> <path>"; the path is shown relative to the working directory
// when it lies below it.
type Bridge struct {
	renderer ports.Renderer
	base     string
}

// NewBridge returns a Bridge reporting to renderer.
func NewBridge(renderer ports.Renderer) *Bridge {
	base, _ := os.Getwd()
	return &Bridge{renderer: renderer, base: base}
}

// NewProvider returns a tracer provider whose spans are reported to renderer.
func NewProvider(renderer ports.Renderer) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewBridge(renderer)))
}

// OnStart reports the invocation under its display label.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var parentID string
	if parentSpan := trace.SpanFromContext(parent); parentSpan.SpanContext().IsValid() {
		parentID = parentSpan.SpanContext().SpanID().String()
	}

	b.renderer.OnTaskStart(sc.SpanID().String(), parentID, b.label(s.Name()), s.StartTime())
}

// OnEnd reports the outcome. A span that ended with an error status fails
// with its status description.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "invocation failed"
		}
		err = errors.New(desc)
	}

	b.renderer.OnTaskComplete(sc.SpanID().String(), s.EndTime(), cached(s.Attributes()), err)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

func (b *Bridge) label(name string) string {
	op, path, ok := strings.Cut(name, " ")
	if !ok || b.base == "" || !filepath.IsAbs(path) {
		return name
	}
	rel, err := filepath.Rel(b.base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return name
	}
	return op + " " + rel
}

func cached(attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		if kv.Key == cachedKey {
			return kv.Value.AsBool()
		}
	}
	return false
}
