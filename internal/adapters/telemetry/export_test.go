package telemetry

// SpanID exposes the OpenTelemetry span ID for tests.
func (s *OTelSpan) SpanID() string {
	return s.span.SpanContext().SpanID().String()
}
