package ports

import (
	"io"

	"go.trai.ch/hdrcost/internal/core/domain"
)

// ReportWriter renders an analysis report.
//
//go:generate mockgen -source=report_writer.go -destination=mocks/mock_report_writer.go -package=mocks
type ReportWriter interface {
	// Write renders report to w in the named format.
	Write(w io.Writer, report *domain.Report, format string) error
}
