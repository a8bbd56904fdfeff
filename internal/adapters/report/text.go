package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/hdrcost/internal/ui/style"
)

func writeText(out *termenv.Output, r *domain.Report) {
	heading := func(s string) {
		_, _ = fmt.Fprintln(out, out.String(s).Foreground(out.Color(string(style.Iris))).Bold())
	}
	cost := func(d time.Duration) string {
		c := style.CostColor(d.Seconds(), r.MinDuration.Seconds())
		return out.String(fmt.Sprintf("%8s", seconds(d))).Foreground(out.Color(string(c))).String()
	}
	dim := func(s string) string {
		return out.String(s).Foreground(out.Color(string(style.Slate))).String()
	}

	heading(fmt.Sprintf("Headers by total cost (%d sources)", r.Sources))
	if len(r.Headers) == 0 {
		_, _ = fmt.Fprintln(out, dim("  none above "+seconds(r.MinDuration)))
	} else {
		_, _ = fmt.Fprintln(out, dim(fmt.Sprintf("%9s %8s %5s  %s", "TOTAL", "CPU", "REFS", "HEADER")))
		for _, h := range r.Headers {
			_, _ = fmt.Fprintf(out, " %s %8s %5d  %s\n", cost(h.TotalCost), seconds(h.CPUTime), h.RefCount, h.ID)
		}
	}
	_, _ = fmt.Fprintln(out)

	heading("Cost tree")
	for _, line := range r.Tree {
		indent := strings.Repeat("  ", line.Depth)
		if line.Source {
			_, _ = fmt.Fprintf(out, "%s%s\n", indent, out.String(line.Label).Bold())
			continue
		}
		_, _ = fmt.Fprintf(out, "%s%s %s  %s\n", indent, cost(line.Total), dim(fmt.Sprintf("%8s", seconds(line.Self))), line.Label)
	}
	_, _ = fmt.Fprintln(out)

	heading(fmt.Sprintf("Common headers (%s%% of sources or more)", strconv.FormatFloat(r.CommonPercent, 'f', -1, 64)))
	if len(r.Common) == 0 {
		_, _ = fmt.Fprintln(out, dim("  none"))
	}
	for _, id := range r.Common {
		_, _ = fmt.Fprintf(out, "  %s %s\n", out.String(style.Dot).Foreground(out.Color(string(style.Green))), id)
	}

	if len(r.FailedHeaders)+len(r.FailedSources) > 0 {
		_, _ = fmt.Fprintln(out)
		heading("Failed")
		cross := out.String(style.Cross).Foreground(out.Color(string(style.Red)))
		for _, src := range r.FailedSources {
			_, _ = fmt.Fprintf(out, "  %s trace  %s\n", cross, src)
		}
		for _, id := range r.FailedHeaders {
			_, _ = fmt.Fprintf(out, "  %s header %s\n", cross, id)
		}
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, dim(fmt.Sprintf("measured %d, failed %d, pruned %d, skipped %d",
		r.Stats.Measured, r.Stats.Failed, r.Stats.Pruned, r.Stats.Skipped)))
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
