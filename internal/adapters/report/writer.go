// Package report renders analysis reports as text or JSON.
package report

import (
	"bytes"
	"io"

	"github.com/muesli/termenv"
	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/hdrcost/internal/core/ports"
	"go.trai.ch/hdrcost/internal/ui/output"
	"go.trai.ch/zerr"
)

// Supported formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var _ ports.ReportWriter = (*Writer)(nil)

// Writer implements ports.ReportWriter.
type Writer struct {
	profile func() termenv.Profile
}

// NewWriter creates a Writer that colors text output for the detected terminal.
func NewWriter() *Writer {
	return &Writer{profile: output.ColorProfile}
}

// Write renders report to w. An empty format means text.
func (rw *Writer) Write(w io.Writer, report *domain.Report, format string) error {
	var buf bytes.Buffer

	switch format {
	case "", FormatText:
		writeText(output.NewWithProfile(&buf, rw.profile), report)
	case FormatJSON:
		if err := writeJSON(&buf, report); err != nil {
			return zerr.Wrap(err, domain.ErrReportWriteFailed.Error())
		}
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnknownFormat, "cannot render report"), "format", format)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return zerr.Wrap(err, domain.ErrReportWriteFailed.Error())
	}
	return nil
}
